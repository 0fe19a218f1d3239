package database

import (
	"log"

	"gorm.io/gorm"
)

// posterBaseURL is the TMDB image CDN prefix used to expand relative poster
// paths left behind by builds that predate the scraping pass.
const posterBaseURL = "https://image.tmdb.org/t/p/w342"

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := migratePosterPaths(db); err != nil {
		return err
	}
	return nil
}

// migratePosterPaths expands relative poster_path style values ("/abc.jpg")
// into full CDN URLs. Safe to run repeatedly: it only touches rows whose
// poster URL still starts with a slash.
func migratePosterPaths(db *gorm.DB) error {
	if !db.Migrator().HasTable("movies") {
		return nil
	}

	result := db.Exec(`
		UPDATE movies
		SET poster_url = ? || poster_url
		WHERE poster_url LIKE '/%'
	`, posterBaseURL)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Expanded %d relative poster paths to full URLs", result.RowsAffected)
	}

	return nil
}
