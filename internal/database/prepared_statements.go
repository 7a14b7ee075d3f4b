package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes fréquentes
	stmtGetProfileByEmail  *gocql.Query
	stmtGetProfileByID     *gocql.Query
	stmtInsertProfile      *gocql.Query
	stmtInsertProfileEmail *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		session, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		stmtGetProfileByEmail = session.Query("SELECT user_id FROM profiles_by_email WHERE email = ?")

		stmtGetProfileByID = session.Query(`SELECT email, password, name, provider, role, created_at, updated_at
			FROM profiles WHERE user_id = ?`)

		stmtInsertProfile = session.Query(`INSERT INTO profiles (user_id, email, password, name, provider, role, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

		stmtInsertProfileEmail = session.Query("INSERT INTO profiles_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS")

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetProfileByEmail() *gocql.Query {
	return stmtGetProfileByEmail
}

func GetPreparedGetProfileByID() *gocql.Query {
	return stmtGetProfileByID
}

func GetPreparedInsertProfile() *gocql.Query {
	return stmtInsertProfile
}

func GetPreparedInsertProfileEmail() *gocql.Query {
	return stmtInsertProfileEmail
}
