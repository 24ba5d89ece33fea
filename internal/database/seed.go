package database

import (
	"context"
	"fmt"
	"time"

	"cyberacademy/internal/model"
	"cyberacademy/internal/repository"
)

// Catalog bundles the repositories written by Seed.
type Catalog struct {
	Courses    repository.CourseRepository
	Milestones repository.MilestoneRepository
	Blog       repository.BlogRepository
}

// Seed fills an empty catalog with the academy's courses, their milestones and
// content, and a few blog posts. It does nothing if any course exists.
func Seed(ctx context.Context, c Catalog) error {
	existing, err := c.Courses.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("check catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for i := range seedCourses {
		course := seedCourses[i]
		if err := c.Courses.CreateCourse(ctx, &course); err != nil {
			return fmt.Errorf("seed course %q: %w", course.Title, err)
		}
		for pos, m := range seedMilestones[course.Title] {
			m.CourseID = course.ID
			m.Position = pos
			if err := c.Milestones.CreateMilestone(ctx, &m); err != nil {
				return fmt.Errorf("seed milestone %q: %w", m.Title, err)
			}
		}
		for pos, cc := range seedContent[course.Title] {
			cc.CourseID = course.ID
			cc.Position = pos
			if err := c.Courses.CreateCourseContent(ctx, &cc); err != nil {
				return fmt.Errorf("seed content %q: %w", cc.Title, err)
			}
		}
	}

	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	for i := range seedPosts {
		p := seedPosts[i]
		p.CreatedAt = base.AddDate(0, i, 0)
		if err := c.Blog.CreatePost(ctx, &p); err != nil {
			return fmt.Errorf("seed blog post %q: %w", p.Title, err)
		}
	}
	return nil
}

func course(title, desc string, inr, usd int64, level model.Level, duration string, featured bool) model.Course {
	return model.Course{
		Title:       title,
		Description: desc,
		PriceINR:    inr,
		PriceUSD:    usd,
		Level:       level,
		Duration:    duration,
		Featured:    featured,
	}
}

var seedCourses = []model.Course{
	course("Cybersecurity Fundamentals", "Learn the basics of cybersecurity, including network security, encryption, and threat mitigation.", 8000, 100, model.LevelBeginner, "6 weeks", true),
	course("Ethical Hacking", "Explore ethical hacking techniques and learn to identify and exploit vulnerabilities in computer systems.", 12000, 150, model.LevelIntermediate, "8 weeks", true),
	course("Kali Linux", "Master Kali Linux, the OS used for penetration testing, and learn how to use its tools for security assessments.", 10000, 125, model.LevelIntermediate, "6 weeks", false),
	course("Network Security", "Learn essential network security concepts such as firewalls, VPNs, and IDS/IPS systems.", 12000, 150, model.LevelIntermediate, "8 weeks", false),
	course("Wireless Network Security", "Understand how to secure wireless networks and protect against common wireless attacks like rogue access points.", 9000, 110, model.LevelIntermediate, "5 weeks", false),
	course("Web Application Security", "Learn to secure web applications from threats like SQL injection, XSS, and CSRF.", 11000, 140, model.LevelIntermediate, "7 weeks", false),
	course("Penetration Testing", "Develop hands-on skills in penetration testing to identify and exploit vulnerabilities in systems and applications.", 14000, 175, model.LevelAdvanced, "10 weeks", true),
	course("Bug Bounty Hunting", "Discover how to find vulnerabilities in websites and earn rewards by participating in bug bounty programs.", 10000, 125, model.LevelIntermediate, "6 weeks", false),
	course("Digital Forensics", "Learn how to investigate and recover data from compromised systems to uncover cybercrime.", 15000, 190, model.LevelAdvanced, "10 weeks", false),
	course("Advanced Ethical Hacking Techniques", "Dive deeper into advanced hacking techniques and exploit complex vulnerabilities.", 18000, 225, model.LevelAdvanced, "12 weeks", false),
	course("Red Teaming and Blue Teaming", "Learn both offensive and defensive strategies to simulate real-world cyber attacks and responses.", 15000, 190, model.LevelAdvanced, "10 weeks", false),
	course("Red Team vs Blue Team Training (Advanced)", "Take your Red Team and Blue Team skills to the next level with advanced tactics and real-world simulations.", 20000, 250, model.LevelAdvanced, "12 weeks", false),
	course("Cybersecurity Risk Management", "Understand risk assessment, mitigation strategies, and how to manage cybersecurity risks effectively.", 12000, 150, model.LevelIntermediate, "6 weeks", false),
	course("Artificial Intelligence (AI) in Cybersecurity", "Explore the use of AI and machine learning in detecting and responding to cybersecurity threats.", 17000, 215, model.LevelAdvanced, "8 weeks", false),
	course("Deep Web and Dark Web Investigation", "Learn how to investigate the Deep Web and Dark Web for cybercriminal activity and data leaks.", 12500, 160, model.LevelAdvanced, "6 weeks", false),
	course("Cybersecurity for Startups", "Discover cost-effective security practices designed specifically for startups and small businesses.", 9000, 115, model.LevelBeginner, "4 weeks", false),
	course("Cybersecurity Leadership and Management", "Learn how to lead and manage cybersecurity teams, build security policies, and drive organizational change.", 22000, 275, model.LevelAdvanced, "8 weeks", false),
	course("Cyber Security Expert", "Comprehensive program to become a cybersecurity expert with hands-on training in all aspects of information security.", 35000, 500, model.LevelExpert, "24 weeks", false),
	course("Security Awareness Essentials", "A free introduction to phishing, passwords and safe browsing for everyone.", 0, 0, model.LevelBeginner, "1 week", false),
}

var seedMilestones = map[string][]model.Milestone{
	"Cybersecurity Fundamentals": {
		{Title: "Security Mindset", Description: "Understand the CIA triad and common threat actors.", ShareableText: "I just learned the foundations of the security mindset!", Badge: "mindset"},
		{Title: "Network Basics", Description: "Map how packets move and where they can be intercepted.", ShareableText: "I can now explain how attackers intercept network traffic.", Badge: "packet-tracer"},
		{Title: "Cryptography 101", Description: "Symmetric and asymmetric encryption, hashing and signatures.", ShareableText: "Encryption unlocked: I completed Cryptography 101!", Badge: "cipher"},
		{Title: "Threat Mitigation", Description: "Build a layered defense plan for a small organization.", ShareableText: "I finished Cybersecurity Fundamentals!", Badge: "defender"},
	},
	"Ethical Hacking": {
		{Title: "Reconnaissance", Description: "Passive and active information gathering.", ShareableText: "Recon complete! Next stop: scanning.", Badge: "recon"},
		{Title: "Scanning & Enumeration", Description: "Discover hosts, ports and services.", ShareableText: "I mapped my first network like a pro.", Badge: "scanner"},
		{Title: "Exploitation", Description: "Exploit a vulnerable service in the lab.", ShareableText: "First shell popped in the lab!", Badge: "exploit"},
		{Title: "Reporting", Description: "Write an actionable findings report.", ShareableText: "I completed the Ethical Hacking course!", Badge: "reporter"},
	},
	"Security Awareness Essentials": {
		{Title: "Spot the Phish", Description: "Recognize phishing emails and messages.", ShareableText: "I can spot a phishing email!", Badge: "phish-spotter"},
		{Title: "Password Hygiene", Description: "Use a password manager and MFA.", ShareableText: "My accounts are now protected with MFA.", Badge: "mfa"},
	},
}

var seedContent = map[string][]model.CourseContent{
	"Cybersecurity Fundamentals": {
		{Title: "Welcome and course overview", Type: model.ContentVideo, Body: "videos/fundamentals/welcome.mp4"},
		{Title: "The CIA triad", Type: model.ContentArticle, Body: "Confidentiality, integrity and availability are the three goals every control serves."},
		{Title: "Capture your first packets", Type: model.ContentLab, Body: "labs/fundamentals/wireshark"},
		{Title: "Fundamentals check", Type: model.ContentQuiz, Body: "quizzes/fundamentals/final"},
	},
	"Ethical Hacking": {
		{Title: "Rules of engagement", Type: model.ContentArticle, Body: "Never test a system without written authorization and an agreed scope."},
		{Title: "Recon with open sources", Type: model.ContentVideo, Body: "videos/ethical-hacking/osint.mp4"},
		{Title: "Exploit the training VM", Type: model.ContentLab, Body: "labs/ethical-hacking/vm-01"},
	},
	"Security Awareness Essentials": {
		{Title: "Anatomy of a phishing email", Type: model.ContentVideo, Body: "videos/awareness/phishing.mp4"},
		{Title: "Setting up MFA", Type: model.ContentArticle, Body: "Enable an authenticator app on every account that supports it."},
	},
}

var seedPosts = []model.BlogPost{
	{Title: "Five Phishing Red Flags Everyone Should Know", Author: "Security Team", ImagePath: "blog/phishing.jpg",
		Content: "Phishing remains the most common way into an organization. Urgent language, mismatched sender domains, unexpected attachments, requests for credentials and too-good-to-be-true offers are the signs to watch for."},
	{Title: "Getting Started with Kali Linux", Author: "Training Team", ImagePath: "blog/kali.jpg",
		Content: "Kali Linux ships with hundreds of tools for security assessments. Start with nmap for discovery, then explore Burp Suite for web testing, always inside a lab you are authorized to attack."},
	{Title: "Why Small Businesses Need a Security Plan", Author: "Consulting Team", ImagePath: "blog/startups.jpg",
		Content: "Attackers target small companies because they expect weaker defenses. A short written plan covering backups, patching, MFA and incident contacts closes most of the gap."},
}
