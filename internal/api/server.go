package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/ibrahimchallal/tournament_service/config"
	"github.com/ibrahimchallal/tournament_service/infra/queue"
	"github.com/ibrahimchallal/tournament_service/internal/api/rest/handlers"
	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/helper"
	"github.com/ibrahimchallal/tournament_service/internal/repository"
	"github.com/ibrahimchallal/tournament_service/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260419

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.Registration{},
		&domain.User{},
		&domain.Role{},
		&domain.UserRole{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	authHelper := helper.SetupAuth(cfg.AccessSecret)
	sessionBroker := services.NewSessionBroker()

	// ---------- Repositories ----------
	registrationRepo := repository.NewRegistrationRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRoleRepo := repository.NewUserRoleRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	seedAdmin(cfg, roleRepo, userRepo, userRoleRepo)

	// ---------- Services ----------
	registrationSvc := services.NewRegistrationService(registrationRepo, kafkaProducer)
	userSvc := services.NewUserService(userRepo, userRoleRepo, authHelper, sessionBroker)
	dashboards := services.NewDashboardService(registrationRepo, sessionBroker)

	// ---------- Handlers ----------
	registrationHandler := handlers.NewRegistrationHandler(registrationSvc)
	registrationHandler.SetupRoutes(app)

	adminHandler := handlers.NewAdminHandler(userSvc, dashboards, authHelper, sessionBroker, userRoleRepo, auditRepo)
	adminHandler.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

// seedAdmin makes sure the ADMIN role exists and, when configured, that the
// bootstrap admin account holds it.
func seedAdmin(
	cfg config.Config,
	roles repository.RoleRepository,
	users repository.UserRepository,
	userRoles repository.UserRoleRepository,
) {
	adminRole, err := roles.EnsureRole(domain.RoleAdmin, domain.RoleAdmin)
	if err != nil {
		log.Printf("seed admin role error: %v", err)
		return
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	admin, err := users.FindUserByEmail(cfg.AdminEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		authHelper := helper.SetupAuth(cfg.AccessSecret)
		hashed, hashErr := authHelper.HashPassword(cfg.AdminPassword)
		if hashErr != nil {
			log.Printf("seed admin user error: %v", hashErr)
			return
		}
		admin, err = users.CreateUser(&domain.User{
			Email:        cfg.AdminEmail,
			PasswordHash: hashed,
			DisplayName:  "Organizer",
			Status:       "active",
		})
		if err != nil {
			log.Printf("seed admin user error: %v", err)
			return
		}
	} else if err != nil {
		log.Printf("seed admin user error: %v", err)
		return
	}

	if err := userRoles.AssignRole(admin.ID, adminRole.ID); err != nil {
		log.Printf("seed admin role link error: %v", err)
	}
}
