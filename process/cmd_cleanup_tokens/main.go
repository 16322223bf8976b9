package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// Prunes refresh tokens that are revoked or past expiry. Raw SQL on
// purpose: the table can get large and this runs from cron.
func main() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	res1, err := db.Exec(`DELETE FROM refresh_tokens WHERE revoked = true`)
	if err != nil {
		log.Fatalf("delete revoked tokens: %v", err)
	}
	n1, _ := res1.RowsAffected()
	res2, err := db.Exec(`DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		log.Fatalf("delete expired tokens: %v", err)
	}
	n2, _ := res2.RowsAffected()
	fmt.Printf("cleanup done: revoked deleted=%d, expired deleted=%d\n", n1, n2)
}
