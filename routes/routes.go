package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	config "github.com/phillip/pet-adoption-go/config"
	controllers "github.com/phillip/pet-adoption-go/controllers"
	middleware "github.com/phillip/pet-adoption-go/middleware"
	models "github.com/phillip/pet-adoption-go/models"
	utils "github.com/phillip/pet-adoption-go/utils"
)

const uploadPath = "/uploads/images"

// NewRouter builds the engine with the shared middleware chain and every route.
func NewRouter(env *controllers.Env, cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	// ClientIP keys the rate limiter; forwarded headers count only from these peers.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	r.Use(
		otelgin.Middleware(cfg.OTEL.ServiceName),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.BodyLimit(cfg.MaxBodyBytes, map[string]int64{uploadPath: cfg.MaxUploadBytes}),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.Metrics(),
		middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP).Handler(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match", utils.RequestIDHeader},
			ExposeHeaders:    []string{utils.RequestIDHeader, "ETag"},
			AllowCredentials: true,
		}),
		middleware.SecurityHeaders(middleware.SecurityOptions{
			EnableHSTS: cfg.Security.EnableHSTS,
			HSTSMaxAge: cfg.Security.HSTSMaxAge,
		}),
	)

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Server is running!") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		utils.Fail(c, http.StatusNotFound, utils.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		utils.Fail(c, http.StatusMethodNotAllowed, utils.ErrCodeMethodNotAllowed, "method not allowed")
	})

	SetupRoutes(r, env)
	return r, nil
}

func SetupRoutes(r *gin.Engine, env *controllers.Env) {
	users := env.Stores.Users

	// guards
	token := middleware.Requires(middleware.Authenticated(env.Tokens, env.Cookie))
	admin := middleware.Requires(
		middleware.Authenticated(env.Tokens, env.Cookie),
		middleware.HasRole(users, models.RoleAdmin, env.Timeout),
	)
	selfOrAdmin := middleware.Requires(
		middleware.Authenticated(env.Tokens, env.Cookie),
		middleware.SelfOrRole("email", users, models.RoleAdmin, env.Timeout),
	)
	// owner checks need the document, so handlers finish them
	owner := token

	// session
	r.POST("/jwt", controllers.IssueToken(env))
	r.GET("/logout", controllers.Logout(env))

	// users
	r.GET("/all_user", admin, controllers.ListUsers(env))
	r.GET("/users/role/:email", controllers.GetUserRole(env))
	r.PATCH("/users/:id/make-admin", admin, controllers.MakeAdmin(env))
	r.POST("/users/:email", controllers.CreateUser(env))

	// pets
	r.GET("/managepets", admin, controllers.ListAllPets(env))
	r.DELETE("/managepetss/:id", admin, controllers.DeletePet(env))
	r.PATCH("/manage-pets/:id", admin, controllers.UpdatePet(env))
	r.POST("/pets", controllers.CreatePet(env))
	r.GET("/all_pets", controllers.ListPets(env))
	r.GET("/my-pets/:email", selfOrAdmin, controllers.ListPetsByOwner(env))
	r.DELETE("/mypets/:id", owner, controllers.DeletePet(env))
	r.GET("/pets/:details", token, controllers.GetPet(env, "details"))
	r.PATCH("/mypets_status/:id", owner, controllers.UpdatePetStatus(env))
	r.GET("/updatePets/:id", token, controllers.GetPet(env, "id"))
	r.PATCH("/update-allpets/:id", owner, controllers.UpdatePet(env))

	// adoption requests
	r.GET("/adoption-request/:email", controllers.ListAdoptionRequests(env))
	r.PATCH("/adoption-request/:id", token, controllers.DecideAdoptionRequest(env))
	r.DELETE("/adoption/:id", controllers.DeleteAdoptionRequest(env))
	r.POST("/adoptions", controllers.CreateAdoptionRequest(env))

	// donation campaigns
	r.GET("/donation/count/:donationId", token, controllers.ListCampaignDonations(env))
	r.PATCH("/mydonation_update/:id", owner, controllers.UpdateCampaign(env))
	r.PATCH("/mydonation_pause/:id", owner, controllers.SetCampaignPaused(env))
	r.PATCH("/donation_pased/:id", owner, controllers.SetCampaignPaused(env))
	r.DELETE("/donation_delete/:id", owner, controllers.DeleteCampaign(env))
	r.GET("/mydonation_update/:id", token, controllers.GetCampaign(env, "id"))
	r.GET("/mydonation/:email", selfOrAdmin, controllers.ListCampaignsByOwner(env))
	r.GET("/donation/:id", controllers.GetCampaign(env, "id"))
	r.GET("/admin_all_donation", admin, controllers.ListAllCampaigns(env))
	r.GET("/donation-campaigns", controllers.ListCampaignPage(env))
	r.POST("/donation-campaign", controllers.CreateCampaign(env))

	// payments
	r.GET("/donation_amounts/:email", selfOrAdmin, controllers.ListDonationsByEmail(env))
	r.DELETE("/donationsDelete/:id", controllers.DeletePayment(env))
	r.POST("/create-payment-intent", controllers.CreatePaymentIntent(env))
	r.POST("/donations", controllers.ConfirmDonation(env))

	// uploads
	r.POST(uploadPath, token, controllers.UploadImage(env))
}
