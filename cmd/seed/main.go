package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/internal/repository"
	"github.com/noah-isme/school-api/pkg/config"
	"github.com/noah-isme/school-api/pkg/database"
)

// Seeds a development database with an admin account and a small roster.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	classes := repository.NewClassRepository(db)
	students := repository.NewStudentRepository(db)

	adminEmail := "admin@school.test"
	exists, err := users.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("failed to check admin account: %v", err)
	}
	if exists {
		log.Println("seed: admin account already present, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 12)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	admin := &models.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	classA := &models.Class{Name: "Grade 10", Section: "A"}
	if err := classes.Create(ctx, classA); err != nil {
		log.Fatalf("failed to create class: %v", err)
	}
	classB := &models.Class{Name: "Grade 10", Section: "B"}
	if err := classes.Create(ctx, classB); err != nil {
		log.Fatalf("failed to create class: %v", err)
	}

	roster := []*models.Student{
		{Name: "Alice Carter", Age: 15, ClassID: &classA.ID},
		{Name: "Ben Osei", Age: 16, ClassID: &classA.ID},
		{Name: "Chloe Tan", Age: 15, ClassID: &classB.ID},
		{Name: "Daniel Reyes", Age: 16},
	}
	for _, st := range roster {
		if err := students.Create(ctx, st); err != nil {
			log.Fatalf("failed to create student %q: %v", st.Name, err)
		}
	}

	log.Printf("seed: created admin %s, 2 classes, %d students", adminEmail, len(roster))
}
