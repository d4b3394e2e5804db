package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"waterpermits/internal/database"
	"waterpermits/internal/domain"
	"waterpermits/internal/repository"
)

// Dev seeder: migrates the sqlite schema and loads divisions, a local admin
// and a handful of permits so the dashboard has something to show.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "permits.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.Division{},
		&domain.User{},
		&domain.Session{},
		&domain.Permit{},
		&domain.PermitPhoto{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM permit_photos")
	db.Exec("DELETE FROM permits")
	db.Exec("DELETE FROM sessions")
	db.Exec("DELETE FROM users")
	db.Exec("DELETE FROM divisions")

	ctx := context.Background()

	log.Println("Creating divisions...")
	divisions := []domain.Division{
		{ID: 1, Name: "Licenses, Patents and Deeds Division", Abbr: strptr("LPDD")},
		{ID: 2, Name: "Conservation and Development Division", Abbr: strptr("CDD")},
		{ID: 3, Name: "Enforcement Division", Abbr: strptr("ED")},
	}
	if err := repository.NewDivisionRepository(db).Upsert(ctx, divisions); err != nil {
		log.Fatal("division seed failed:", err)
	}

	log.Println("Creating admin user...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	hash := string(adminHash)
	admin := domain.User{
		Name:     "admin",
		Email:    "admin@permits.local",
		Password: &hash,
		Role:     domain.RoleAdmin,
		Position: strptr("System Administrator"),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("admin seed failed:", err)
	}
	log.Println("Admin created: admin@permits.local / admin123")

	log.Println("Creating sample permits...")
	permits := []domain.Permit{
		{
			ID:           1,
			Region:       strptr("NCR"),
			Province:     strptr("Metro Manila"),
			Municipality: strptr("Pasig"),
			Permit:       strptr("A1"),
			Grantee:      strptr("Aqua Ventures Inc."),
			Location:     strptr("Brgy. Kapitolyo"),
			Source:       strptr("deepwell"),
			Type:         strptr("NWRB"),
			Purpose:      strptr("industrial"),
			Charges:      strptr("1250.00"),
			Granted:      strptr("2.50"),
			DateApp:      strptr("2019-03-11"),
		},
		{
			ID:           2,
			Region:       strptr("NCR"),
			Province:     strptr("Metro Manila"),
			Municipality: strptr("Pasig"),
			Permit:       strptr("A2"),
			Grantee:      strptr("Riverside Homeowners"),
			Location:     strptr("Brgy. Ugong"),
			Source:       strptr("deepwell"),
			Type:         strptr("NWRB"),
			Purpose:      strptr("domestic"),
			Charges:      strptr("480.00"),
			Granted:      strptr("1.00"),
			DateApp:      strptr("2020-07-02"),
			Remarks:      strptr("renewed 2023"),
		},
		{
			ID:           3,
			Region:       strptr("NCR"),
			Province:     strptr("Metro Manila"),
			Municipality: strptr("Taguig"),
			Permit:       strptr("A3"),
			Grantee:      strptr("Fort Bonifacio Estates"),
			Location:     strptr("BGC"),
			Source:       strptr("surface"),
			Type:         strptr("NWRB"),
			Purpose:      strptr("commercial"),
			Charges:      strptr("3120.75"),
			Granted:      strptr("5.00"),
			DateApp:      strptr("2018-11-20"),
		},
	}
	for i := range permits {
		if err := db.Create(&permits[i]).Error; err != nil {
			log.Fatal("permit seed failed:", err)
		}
	}

	log.Println("Seed complete.")
}

func strptr(s string) *string { return &s }
