// File: cmd/seed/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"padelpass-backend/internal/config"
	"padelpass-backend/internal/domain/model"
	"padelpass-backend/internal/domain/ports/repository"
	pg "padelpass-backend/internal/infra/db/postgres"
	"padelpass-backend/internal/infra/identity"
)

// Seeds the SuperAdmin account, the sample plans and one demo club with
// non-peak hours. Safe to run twice: existing rows are left alone.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	userRepo := pg.NewPostgresUserRepository(pool)
	planRepo := pg.NewPostgresPlanRepository(pool)
	clubRepo := pg.NewPostgresClubRepository(pool)
	ident := identity.NewBcryptProvider(userRepo)

	// ---- SuperAdmin ----
	adminEmail := envOr("SEED_ADMIN_EMAIL", "admin@padelpass.local")
	adminPassword := envOr("SEED_ADMIN_PASSWORD", "")
	if _, err := ident.FindByEmail(ctx, adminEmail); err == nil {
		fmt.Printf("superadmin %s already present\n", adminEmail)
	} else {
		if adminPassword == "" {
			log.Fatalf("SEED_ADMIN_PASSWORD must be set to create %s", adminEmail)
		}
		admin, err := model.NewUser(uuid.NewString(), adminEmail, envOr("SEED_ADMIN_PHONE", "+966500000000"), "Platform Admin")
		if err != nil {
			log.Fatalf("superadmin: %v", err)
		}
		if err := ident.Create(ctx, repository.NoTX, admin, adminPassword); err != nil {
			log.Fatalf("create superadmin: %v", err)
		}
		if err := ident.AssignRole(ctx, repository.NoTX, admin.ID, model.RoleSuperAdmin); err != nil {
			log.Fatalf("assign role: %v", err)
		}
		fmt.Printf("seeded superadmin: %s (id=%s)\n", adminEmail, admin.ID)
	}

	// ---- Plans ----
	existing, err := planRepo.ListAll(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(existing))
	} else {
		seed := []struct {
			Name   string
			Months int
			Price  int64
		}{
			{"Monthly", 1, 19_900},
			{"Quarterly", 3, 49_900},
			{"Annual", 12, 179_900},
		}
		for _, s := range seed {
			p, err := model.NewSubscriptionPlan(uuid.NewString(), s.Name, s.Months, s.Price)
			if err != nil {
				log.Fatalf("plan %q: %v", s.Name, err)
			}
			if err := planRepo.Save(ctx, repository.NoTX, p); err != nil {
				log.Fatalf("save plan %q: %v", s.Name, err)
			}
			fmt.Printf("seeded plan: %s (id=%s, months=%d, price=%d halalas)\n", p.Name, p.ID, p.DurationInMonths, p.PriceHalalas)
		}
	}

	// ---- Demo club with non-peak hours ----
	clubs, _, err := clubRepo.List(ctx, repository.NoTX, repository.Page{Number: 1, Size: 1}, repository.ClubSortName, repository.SortAsc)
	if err != nil {
		log.Fatalf("list clubs: %v", err)
	}
	if len(clubs) > 0 {
		fmt.Println("clubs already present. No changes.")
		return
	}

	lat, lng := 24.7136, 46.6753
	club, err := model.NewClub(uuid.NewString(), "PadelPass Riyadh", "King Fahd Rd, Riyadh", "Asia/Riyadh", &lat, &lng)
	if err != nil {
		log.Fatalf("club: %v", err)
	}
	if err := clubRepo.Save(ctx, repository.NoTX, club); err != nil {
		log.Fatalf("save club: %v", err)
	}

	// Weekday mornings are off-peak.
	for day := time.Sunday; day <= time.Thursday; day++ {
		start, _ := model.ParseTimeOfDay("08:00")
		end, _ := model.ParseTimeOfDay("14:00")
		slot, err := model.NewNonPeakSlot(uuid.NewString(), club.ID, day, start, end)
		if err != nil {
			log.Fatalf("slot: %v", err)
		}
		if err := clubRepo.SaveSlot(ctx, repository.NoTX, slot); err != nil {
			log.Fatalf("save slot: %v", err)
		}
	}
	fmt.Printf("seeded club: %s (id=%s) with %d non-peak slots\n", club.Name, club.ID, 5)
	fmt.Println("Seeding complete.")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
