// @title Choreboard API
// @description API for the household chore tracker "Choreboard"
// @schemes http
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/halvard/choreboard/internal/api"
	"github.com/halvard/choreboard/internal/database"
	"github.com/halvard/choreboard/internal/repository"
	"github.com/halvard/choreboard/internal/service"
	"github.com/halvard/choreboard/pkg/cleanup"
	"github.com/halvard/choreboard/pkg/config"
	jwtservice "github.com/halvard/choreboard/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}

	pool, err := repository.NewPool(context.Background(), &dbCfg)
	if err != nil {
		log.Fatal("database connection error: " + err.Error())
	}
	if err = database.Migrate(pool); err != nil {
		log.Fatal("database migration error: " + err.Error())
	}

	usersRepo := repository.NewUsersRepo(pool)
	sessionsRepo := repository.NewSessionsRepo(pool)
	householdsRepo := repository.NewHouseholdsRepo(pool)
	categoriesRepo := repository.NewCategoriesRepo(pool)
	choresRepo := repository.NewChoresRepo(pool)
	registryRepo := repository.NewRegistryRepo(pool)

	tokens := jwtservice.New(cfg.GetString("JWT_SECRET"), cfg.GetStringDefault("JWT_ISSUER", "choreboard"))
	verifier := jwtservice.NewHSIdentityVerifier(cfg.GetString("IDENTITY_SECRET"))

	serv := api.New(&api.ServicesList{
		AuthService:       service.NewAuthService(usersRepo, sessionsRepo, verifier, tokens),
		HouseholdsService: service.NewHouseholdsService(householdsRepo, usersRepo, categoriesRepo, choresRepo),
		CategoriesService: service.NewCategoriesService(categoriesRepo, householdsRepo),
		ChoresService:     service.NewChoresService(choresRepo, categoriesRepo, householdsRepo),
		RegistryService:   service.NewRegistryService(registryRepo, choresRepo, usersRepo, householdsRepo),
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cleanup.CleanUp()
		os.Exit(0)
	}()

	if err = serv.Run(cfg.GetStringDefault("API_ADDRESS", ":8080")); err != nil {
		log.Println("Server error: " + err.Error())
	}
	cleanup.CleanUp()
}
