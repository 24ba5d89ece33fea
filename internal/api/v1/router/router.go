package router

import (
	"net/http"
	"os"
	"sync"

	"cyberacademy/internal/api/v1/handler"
	"cyberacademy/internal/config"
	"cyberacademy/internal/middleware"
	"cyberacademy/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Services are the dependencies the HTTP layer is built from.
type Services struct {
	Catalog     service.CatalogService
	Enrollments service.EnrollmentService
	Payments    service.PaymentService
	Progress    service.ProgressService
	Users       service.UserService
	Blog        service.BlogService
	Contact     service.ContactService
}

// Handlers groups the route handlers registered on the API.
type Handlers struct {
	Course     *handler.CourseHandler
	Payment    *handler.PaymentHandler
	Enrollment *handler.EnrollmentHandler
	User       *handler.UserHandler
	Blog       *handler.BlogHandler
}

func NewHandlers(svc Services, logger zerolog.Logger) Handlers {
	return Handlers{
		Course:     handler.NewCourseHandler(svc.Catalog, svc.Enrollments, svc.Progress, logger),
		Payment:    handler.NewPaymentHandler(svc.Payments, logger),
		Enrollment: handler.NewEnrollmentHandler(svc.Enrollments, logger),
		User:       handler.NewUserHandler(svc.Users, svc.Progress, svc.Enrollments, logger),
		Blog:       handler.NewBlogHandler(svc.Blog, svc.Users, svc.Contact, logger),
	}
}

// New builds the full HTTP handler: the API under /api with CORS and
// request logging around it.
func New(cfg *config.Config, svc Services, logger zerolog.Logger) http.Handler {
	h := NewHandlers(svc, logger)

	apiRouter, api := SetupHumaAPI(cfg, h.Payment, logger)
	RegisterRoutes(api, h, cfg.JWTSecret, logger)

	root := chi.NewRouter()
	root.Use(middleware.LoggerMiddleware(logger))
	root.Mount("/api", apiRouter)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(root)
}

var validationStatusOnce sync.Once

// useBadRequestForValidation makes request validation failures answer 400
// instead of huma's default 422.
func useBadRequestForValidation() {
	validationStatusOnce.Do(func() {
		base := huma.NewError
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity {
				status = http.StatusBadRequest
			}
			return base(status, msg, errs...)
		}
	})
}

// SetupHumaAPI creates a Huma API instance on a fresh chi router
func SetupHumaAPI(cfg *config.Config, paymentHandler *handler.PaymentHandler, logger zerolog.Logger) (*chi.Mux, huma.API) {
	useBadRequestForValidation()

	chiRouter := chi.NewRouter()

	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	humaConfig := huma.DefaultConfig("CyberAcademy API", version)
	humaConfig.Info.Description = "Course catalog, enrollment, payments and learning progress"
	if cfg.APIBaseURL != "" {
		humaConfig.Servers = []*huma.Server{{URL: cfg.APIBaseURL}}
	}

	api := humachi.New(chiRouter, humaConfig)

	// Signature verification needs the untouched body, so the webhook bypasses huma.
	chiRouter.Post("/stripe/webhook", paymentHandler.StripeWebhook)

	logger.Info().Str("version", version).Msg("Huma API initialized")
	return chiRouter, api
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(api huma.API, h Handlers, jwtSecret string, logger zerolog.Logger) {
	auth := huma.Middlewares{middleware.AuthMiddleware(api, jwtSecret, logger)}

	// ========== COURSE OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listCourses",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List courses",
		Description: "Filters the catalog by search text, level and INR price range and returns one page",
		Tags:        []string{"courses"},
	}, h.Course.ListCourses)

	huma.Register(api, huma.Operation{
		OperationID: "listFeaturedCourses",
		Method:      http.MethodGet,
		Path:        "/courses/featured",
		Summary:     "List featured courses",
		Tags:        []string{"courses"},
	}, h.Course.ListFeaturedCourses)

	huma.Register(api, huma.Operation{
		OperationID: "getCourse",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}",
		Summary:     "Get a course",
		Tags:        []string{"courses"},
	}, h.Course.GetCourse)

	huma.Register(api, huma.Operation{
		OperationID:   "enrollInCourse",
		Method:        http.MethodPost,
		Path:          "/courses/{courseId}/enroll",
		Summary:       "Enroll in a course",
		Description:   "Enrolls a user without payment; a second enrollment for the same pair is rejected",
		Tags:          []string{"courses", "enrollments"},
		DefaultStatus: http.StatusCreated,
	}, h.Course.Enroll)

	huma.Register(api, huma.Operation{
		OperationID: "getEnrollmentStatus",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}/enrollment-status",
		Summary:     "Check enrollment",
		Description: "Always answers 200; status is unknown when the lookup could not be made",
		Tags:        []string{"courses", "enrollments"},
	}, h.Course.EnrollmentStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getCourseContent",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}/content",
		Summary:     "Get course content",
		Description: "Returns ordered course material; with userId the user must be enrolled",
		Tags:        []string{"courses"},
	}, h.Course.GetCourseContent)

	huma.Register(api, huma.Operation{
		OperationID: "listCourseMilestones",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}/milestones",
		Summary:     "List course milestones",
		Tags:        []string{"courses", "milestones"},
	}, h.Course.ListCourseMilestones)

	// ========== PAYMENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "createPaymentIntent",
		Method:      http.MethodPost,
		Path:        "/create-payment-intent",
		Summary:     "Create a payment intent",
		Tags:        []string{"payments"},
	}, h.Payment.CreatePaymentIntent)

	huma.Register(api, huma.Operation{
		OperationID: "confirmPayment",
		Method:      http.MethodPost,
		Path:        "/payment-success",
		Summary:     "Confirm a payment",
		Description: "Enrolls the payer of a succeeded payment intent; safe to repeat",
		Tags:        []string{"payments", "enrollments"},
	}, h.Payment.PaymentSuccess)

	huma.Register(api, huma.Operation{
		OperationID: "getPaymentConfig",
		Method:      http.MethodGet,
		Path:        "/payment-config",
		Summary:     "Get the publishable payment key",
		Tags:        []string{"payments"},
	}, h.Payment.PaymentConfig)

	// ========== ENROLLMENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "updateEnrollmentProgress",
		Method:      http.MethodPatch,
		Path:        "/enrollments/{enrollmentId}/progress",
		Summary:     "Update enrollment progress",
		Tags:        []string{"enrollments"},
	}, h.Enrollment.UpdateProgress)

	huma.Register(api, huma.Operation{
		OperationID: "updateEnrollmentStatus",
		Method:      http.MethodPatch,
		Path:        "/enrollments/{enrollmentId}/status",
		Summary:     "Update enrollment status",
		Tags:        []string{"enrollments"},
	}, h.Enrollment.UpdateStatus)

	// ========== USER OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "registerUser",
		Method:        http.MethodPost,
		Path:          "/users",
		Summary:       "Register an account",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusCreated,
	}, h.User.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "Log in",
		Tags:        []string{"users"},
	}, h.User.Login)

	huma.Register(api, huma.Operation{
		OperationID: "getMe",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Get the authenticated user",
		Tags:        []string{"users"},
		Middlewares: auth,
	}, h.User.GetMe)

	huma.Register(api, huma.Operation{
		OperationID: "getUserProgress",
		Method:      http.MethodGet,
		Path:        "/users/{userId}/progress",
		Summary:     "Get XP, level and badges",
		Tags:        []string{"users", "progress"},
	}, h.User.GetProgress)

	huma.Register(api, huma.Operation{
		OperationID: "listUserEnrollments",
		Method:      http.MethodGet,
		Path:        "/users/{userId}/enrollments",
		Summary:     "List a user's enrollments",
		Tags:        []string{"users", "enrollments"},
	}, h.User.ListEnrollments)

	huma.Register(api, huma.Operation{
		OperationID: "getCompletedMilestones",
		Method:      http.MethodGet,
		Path:        "/users/{userId}/milestones/{courseId}",
		Summary:     "List completed milestone ids",
		Tags:        []string{"users", "milestones"},
	}, h.User.GetCompletedMilestones)

	huma.Register(api, huma.Operation{
		OperationID: "completeMilestone",
		Method:      http.MethodPost,
		Path:        "/users/{userId}/milestones/{milestoneId}/complete",
		Summary:     "Complete a milestone",
		Description: "Awards XP and the milestone badge once; the previous milestone must be completed first",
		Tags:        []string{"users", "milestones"},
	}, h.User.CompleteMilestone)

	// ========== BLOG & CONTACT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listBlogPosts",
		Method:      http.MethodGet,
		Path:        "/blog",
		Summary:     "List blog posts",
		Tags:        []string{"blog"},
	}, h.Blog.ListPosts)

	huma.Register(api, huma.Operation{
		OperationID: "listRecentBlogPosts",
		Method:      http.MethodGet,
		Path:        "/blog/recent",
		Summary:     "List the newest blog posts",
		Tags:        []string{"blog"},
	}, h.Blog.RecentPosts)

	huma.Register(api, huma.Operation{
		OperationID: "getBlogPost",
		Method:      http.MethodGet,
		Path:        "/blog/{postId}",
		Summary:     "Get a blog post",
		Tags:        []string{"blog"},
	}, h.Blog.GetPost)

	huma.Register(api, huma.Operation{
		OperationID:   "createBlogPost",
		Method:        http.MethodPost,
		Path:          "/blog",
		Summary:       "Publish a blog post",
		Tags:          []string{"blog"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   auth,
	}, h.Blog.CreatePost)

	huma.Register(api, huma.Operation{
		OperationID:   "submitContact",
		Method:        http.MethodPost,
		Path:          "/contact",
		Summary:       "Send a contact message",
		Tags:          []string{"contact"},
		DefaultStatus: http.StatusCreated,
	}, h.Blog.SubmitContact)

	logger.Info().Msg("All operations registered successfully")
}
