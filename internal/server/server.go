package server

import (
	"context"
	"net/http"
	"time"

	"github.com/alumnihq/alumnihq/internal/alumni"
	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/internal/config"
	"github.com/alumnihq/alumnihq/internal/dashboard"
	dashboarddomain "github.com/alumnihq/alumnihq/internal/dashboard/domain"
	"github.com/alumnihq/alumnihq/internal/donation"
	donationdomain "github.com/alumnihq/alumnihq/internal/donation/domain"
	"github.com/alumnihq/alumnihq/internal/event"
	eventdomain "github.com/alumnihq/alumnihq/internal/event/domain"
	"github.com/alumnihq/alumnihq/internal/membership"
	membershipdomain "github.com/alumnihq/alumnihq/internal/membership/domain"
	"github.com/alumnihq/alumnihq/internal/metrics"
	"github.com/alumnihq/alumnihq/internal/providers/email"
	"github.com/alumnihq/alumnihq/internal/wallpost"
	wallpostdomain "github.com/alumnihq/alumnihq/internal/wallpost/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	email.Module,
	alumni.Module,
	membership.Module,
	event.Module,
	donation.Module,
	wallpost.Module,
	dashboard.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	alumniSvc     alumnidomain.Service
	membershipSvc membershipdomain.Service
	eventSvc      eventdomain.Service
	donationSvc   donationdomain.Service
	wallPostSvc   wallpostdomain.Service
	dashboardSvc  dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	AlumniSvc     alumnidomain.Service
	MembershipSvc membershipdomain.Service
	EventSvc      eventdomain.Service
	DonationSvc   donationdomain.Service
	WallPostSvc   wallpostdomain.Service
	DashboardSvc  dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		log:           p.Log.Named("server"),
		alumniSvc:     p.AlumniSvc,
		membershipSvc: p.MembershipSvc,
		eventSvc:      p.EventSvc,
		donationSvc:   p.DonationSvc,
		wallPostSvc:   p.WallPostSvc,
		dashboardSvc:  p.DashboardSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/api/v1")

	// Registration is the one write that happens before the caller has an
	// account. Everything else under /me requires the identity header.
	v1.POST("/alumni", s.RegisterAlumni)
	v1.GET("/alumni", s.SearchAlumni)

	me := v1.Group("/me", CallerRequired())
	me.GET("", s.GetMyProfile)
	me.PATCH("", s.UpdateMyProfile)
	me.DELETE("", s.DeactivateMyProfile)

	memberships := v1.Group("/memberships", CallerRequired())
	memberships.POST("", s.CreateMembership)
	memberships.GET("/status", s.MembershipStatus)

	events := v1.Group("/events")
	events.GET("", s.ListUpcomingEvents)
	events.GET("/:id", s.GetEvent)
	events.POST("", CallerRequired(), s.CreateEvent)
	events.PATCH("/:id", CallerRequired(), s.UpdateEvent)
	events.POST("/:id/cancel", CallerRequired(), s.CancelEvent)
	events.POST("/:id/rsvp", CallerRequired(), s.RSVPEvent)

	// Guests may donate; the rest of the group needs an identity.
	donations := v1.Group("/donations")
	donations.POST("", CallerOptional(), s.CreateDonation)
	donations.GET("", CallerRequired(), s.ListMyDonations)
	donations.POST("/:reference/complete", CallerRequired(), s.CompleteDonation)
	donations.GET("/stats", s.DonationStats)

	wall := v1.Group("/wall")
	wall.GET("/feed", s.WallFeed)
	posts := wall.Group("/posts", CallerRequired())
	posts.POST("", s.CreateWallPost)
	posts.PATCH("/:id", s.UpdateWallPost)
	posts.POST("/:id/publish", s.PublishWallPost)
	posts.POST("/:id/archive", s.ArchiveWallPost)
	posts.DELETE("/:id", s.DeleteWallPost)
	posts.POST("/:id/like", s.LikeWallPost)
	posts.DELETE("/:id/like", s.UnlikeWallPost)

	dash := v1.Group("/dashboard")
	dash.GET("/overview", s.DashboardOverview)
	dash.GET("/monthly", s.DashboardMonthly)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
