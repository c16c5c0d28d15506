// Command adduser creates or updates a console operator account.
package main

import (
	"flag"

	"golang.org/x/crypto/bcrypt"

	"github.com/mbolis/demand-console/config"
	"github.com/mbolis/demand-console/database"
	"github.com/mbolis/demand-console/log"
)

func main() {
	var dbUrl, username, password, roles string
	flag.StringVar(&dbUrl, "db-url", "console.sqlite", "path to SQLite3 DB file (default console.sqlite)")
	flag.StringVar(&username, "username", "", "account name")
	flag.StringVar(&password, "password", "", "account password")
	flag.StringVar(&roles, "roles", "admin", "comma-separated roles (default admin)")
	flag.Parse()

	if username == "" || password == "" {
		log.Fatal("adduser.flags: -username and -password are required")
	}

	db, err := database.Open(config.Config{DBUrl: dbUrl})
	if err != nil {
		log.Fatal("adduser.db.open:", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("adduser.hash:", err)
	}

	_, err = db.Exec(`
		INSERT INTO user (username, password_hash, roles) VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET password_hash = excluded.password_hash, roles = excluded.roles`,
		username,
		string(hash),
		roles,
	)
	if err != nil {
		log.Fatal("adduser.db.upsert:", err)
	}

	log.Info("user saved:", username)
}
