// Command admin creates accounts with a temporary password, or issues a new one. Database
// settings come from the same environment variables as the services.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"resumeKit/internal/auth"
	"resumeKit/internal/config"
	"resumeKit/internal/database"
)

func main() {
	var (
		username = flag.String("username", "", "account username (required)")
		reset    = flag.Bool("reset", false, "issue a new temporary password for an existing account")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("missing required flag: --username")
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}
	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if *reset {
		err = resetPassword(db, u, hashed)
	} else {
		err = createUser(db, u, hashed)
	}
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("account %q must change its password at next login\n", u)
	fmt.Printf("temporary password: %s\n", password)
	fmt.Println("this password is shown only once")
}

func createUser(db *gorm.DB, username, hashed string) error {
	var existing database.User
	switch err := db.Where("username = ?", username).First(&existing).Error; {
	case err == nil:
		return fmt.Errorf("user %q already exists, use --reset", username)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return fmt.Errorf("query user: %w", err)
	}

	user := database.User{Username: username, PasswordHash: hashed, MustChangePassword: true}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func resetPassword(db *gorm.DB, username, hashed string) error {
	res := db.Model(&database.User{}).Where("username = ?", username).
		Updates(map[string]any{"password_hash": hashed, "must_change_password": true})
	if res.Error != nil {
		return fmt.Errorf("reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %q not found", username)
	}
	return nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
