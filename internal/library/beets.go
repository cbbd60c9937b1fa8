package library

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/albumdiff/internal/models"
	"github.com/desertthunder/albumdiff/internal/shared"
)

const (
	beetsAlbumsQuery = `SELECT albumartist, album FROM albums`
	beetsItemsQuery  = `SELECT COALESCE(NULLIF(artist, ''), albumartist), album FROM items`
)

// LoadBeets reads a beets library database without modifying it.
//
// Albums come from the albums table; a library of singletons falls back to the items table.
func LoadBeets(path string) (models.Library, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open beets library: %w", err)
	}

	db, err := shared.NewReadOnlyDatabase(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	lib := models.Library{}
	albumsErr := scanPairs(db, beetsAlbumsQuery, lib)
	if albumsErr == nil && len(lib) > 0 {
		return lib, nil
	}

	if err := scanPairs(db, beetsItemsQuery, lib); err != nil {
		if albumsErr != nil {
			return nil, fmt.Errorf("failed to read beets library: %w", albumsErr)
		}
		return nil, fmt.Errorf("failed to read beets library: %w", err)
	}
	return lib, nil
}

func scanPairs(db *sql.DB, query string, lib models.Library) error {
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var artist, album sql.NullString
		if err := rows.Scan(&artist, &album); err != nil {
			return err
		}
		lib.Add(artist.String, album.String)
	}
	return rows.Err()
}
