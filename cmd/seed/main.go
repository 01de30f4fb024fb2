// Command seed migrates the schema, loads sample customers and opportunities,
// and can create a login user.
//
//	go run ./cmd/seed -samples
//	go run ./cmd/seed -email admin@example.com -password change-me
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/core/config"
	"go-gin-gorm-crm/internal/core/database"
	"go-gin-gorm-crm/internal/core/logger"
	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/repo"
	"go-gin-gorm-crm/internal/service"
)

func main() {
	samples := flag.Bool("samples", false, "insert sample customers and opportunities")
	email := flag.String("email", "", "create a user with this email")
	password := flag.String("password", "", "password for -email")
	name := flag.String("name", "", "display name for -email")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Read(os.Getenv("CONFIG_PATH"))
	if err == nil {
		err = cfg.ValidateDB()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Username: cfg.DB.Username,
		Password: cfg.DB.Password,
		LogLevel: cfg.DB.LogLevel,
	}, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	log.Info("schema migrated", zap.String("driver", cfg.DB.Driver))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	customerRepo := repo.NewCustomerRepo(db)
	customers := service.NewCustomerService(customerRepo, log, nil)
	opportunities := service.NewOpportunityService(repo.NewOpportunityRepo(db), customerRepo, log, nil)
	users := service.NewUserService(repo.NewUserRepo(db), log, nil)

	if *samples {
		if err := seedSamples(ctx, customers, opportunities); err != nil {
			log.Fatal("seed samples", zap.Error(err))
		}
	}
	if *email != "" {
		in := domain.UserInput{Email: *email, Password: *password}
		if *name != "" {
			in.Name = name
		}
		u, err := users.Create(ctx, in)
		switch {
		case errors.Is(err, domain.ErrConflict):
			log.Info("user already exists", zap.String("email", *email))
		case err != nil:
			log.Fatal("create user", zap.Error(err))
		default:
			log.Info("user created", zap.Int64("id", u.ID), zap.String("email", u.Email))
		}
	}
}

type sample struct {
	customer      domain.CustomerInput
	opportunities []domain.OpportunityInput
}

func samples() []sample {
	str := func(s string) *string { return &s }
	money := func(s string) domain.Money { return domain.NewMoney(decimal.RequireFromString(s)) }
	return []sample{
		{
			customer:      domain.CustomerInput{Name: "João Silva", Email: str("joao@example.com"), Phone: str("11999999999")},
			opportunities: []domain.OpportunityInput{{Title: "Venda Software", Value: money("5000")}},
		},
		{
			customer:      domain.CustomerInput{Name: "Maria Souza", Email: str("maria@example.com"), Phone: str("11988888888")},
			opportunities: []domain.OpportunityInput{{Title: "Consultoria TI", Value: money("3000")}},
		},
	}
}

// seedSamples is idempotent: customers whose email is already registered are skipped.
func seedSamples(ctx context.Context, customers *service.CustomerService, opportunities *service.OpportunityService) error {
	for _, s := range samples() {
		c, err := customers.Create(ctx, s.customer)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("customer %s: %w", s.customer.Name, err)
		}
		for _, o := range s.opportunities {
			if _, err := opportunities.Create(ctx, c.ID, o); err != nil {
				return fmt.Errorf("opportunity %s: %w", o.Title, err)
			}
		}
	}
	return nil
}
