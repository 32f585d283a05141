package export

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/princealiomer/Google-ads/internal/scraper"
)

const schema = `
CREATE TABLE IF NOT EXISTS advertisers (
	detail_url TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	name TEXT NOT NULL,
	region TEXT,
	verified INTEGER NOT NULL DEFAULT 0,
	ad_count INTEGER,
	scraped_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS creatives (
	detail_url TEXT NOT NULL,
	position INTEGER NOT NULL,
	creative_url TEXT NOT NULL,
	PRIMARY KEY (detail_url, position)
);
`

// writeSQLite snapshots the run into a SQLite database. Advertisers are
// upserted by detail URL so repeated runs refresh rather than duplicate;
// creative sets are replaced wholesale per advertiser.
func writeSQLite(path string, result *scraper.Result) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertAdv, err := tx.Prepare(`
		INSERT INTO advertisers (detail_url, query, name, region, verified, ad_count, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(detail_url) DO UPDATE SET
			query = excluded.query,
			name = excluded.name,
			region = excluded.region,
			verified = excluded.verified,
			ad_count = excluded.ad_count,
			scraped_at = excluded.scraped_at`)
	if err != nil {
		return err
	}
	defer insertAdv.Close()

	for _, rec := range result.Advertisers {
		var adCount sql.NullInt64
		if rec.AdCount != nil {
			adCount = sql.NullInt64{Int64: int64(*rec.AdCount), Valid: true}
		}
		if _, err := insertAdv.Exec(rec.DetailURL, rec.Query, rec.Name, rec.Region, rec.Verified, adCount, rec.ScrapedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}

	insertCreative, err := tx.Prepare(`INSERT INTO creatives (detail_url, position, creative_url) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertCreative.Close()

	for detailURL, urls := range result.Creatives {
		if _, err := tx.Exec(`DELETE FROM creatives WHERE detail_url = ?`, detailURL); err != nil {
			return err
		}
		for i, u := range urls {
			if _, err := insertCreative.Exec(detailURL, i, u); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
