package dashboard

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Advertiser is one row parsed back out of the tabular export. The
// dashboard consumes only the export files; it has no other contract with
// the scraper.
type Advertiser struct {
	Query      string
	Name       string
	URL        string
	Region     string
	Verified   bool
	AdCount    int
	HasAdCount bool
	ScrapedAt  time.Time
}

// Dataset is the most recent pair of export files found in the results
// directory
type Dataset struct {
	Advertisers []Advertiser
	Creatives   map[string][]string
	CSVPath     string
	JSONPath    string
}

// LoadLatest loads the newest CSV export from dir, plus the newest JSON
// export's creative mapping when one exists
func LoadLatest(dir string) (*Dataset, error) {
	csvPath, err := newestFile(dir, "*.csv")
	if err != nil {
		return nil, err
	}

	advertisers, err := readAdvertisers(csvPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", csvPath, err)
	}

	ds := &Dataset{
		Advertisers: advertisers,
		Creatives:   map[string][]string{},
		CSVPath:     csvPath,
	}

	// The JSON export is optional; basic runs produce a record list that
	// carries nothing beyond the CSV
	if jsonPath, err := newestFile(dir, "*.json"); err == nil {
		if creatives, err := readCreatives(jsonPath); err == nil {
			ds.Creatives = creatives
			ds.JSONPath = jsonPath
		}
	}

	return ds, nil
}

// RegionCount is one row of the per-region breakdown
type RegionCount struct {
	Region   string
	Count    int
	Verified int
}

// Stats summarizes a dataset for the overview header
type Stats struct {
	Total     int
	Verified  int
	TotalAds  int
	Regions   int
	Creatives int
	ByRegion  []RegionCount
}

// Stats computes the overview numbers the dashboard header shows
func (d *Dataset) Stats() Stats {
	s := Stats{Total: len(d.Advertisers)}

	byRegion := map[string]*RegionCount{}
	for _, a := range d.Advertisers {
		if a.Verified {
			s.Verified++
		}
		if a.HasAdCount {
			s.TotalAds += a.AdCount
		}
		region := a.Region
		if region == "" {
			region = "Unknown"
		}
		rc, ok := byRegion[region]
		if !ok {
			rc = &RegionCount{Region: region}
			byRegion[region] = rc
		}
		rc.Count++
		if a.Verified {
			rc.Verified++
		}
	}
	for _, urls := range d.Creatives {
		s.Creatives += len(urls)
	}

	s.Regions = len(byRegion)
	for _, rc := range byRegion {
		s.ByRegion = append(s.ByRegion, *rc)
	}
	sort.Slice(s.ByRegion, func(i, j int) bool {
		if s.ByRegion[i].Count != s.ByRegion[j].Count {
			return s.ByRegion[i].Count > s.ByRegion[j].Count
		}
		return s.ByRegion[i].Region < s.ByRegion[j].Region
	})

	return s
}

// Filter narrows the advertiser table. Empty region matches everything;
// verifiedOnly keeps verified advertisers; minAds keeps advertisers with at
// least that many ads.
func (d *Dataset) Filter(region string, verifiedOnly bool, minAds int) []Advertiser {
	out := make([]Advertiser, 0, len(d.Advertisers))
	for _, a := range d.Advertisers {
		if region != "" && !strings.EqualFold(a.Region, region) {
			continue
		}
		if verifiedOnly && !a.Verified {
			continue
		}
		if minAds > 0 && (!a.HasAdCount || a.AdCount < minAds) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func newestFile(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s files in %s", pattern, dir)
	}

	newest := ""
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = m
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no readable %s files in %s", pattern, dir)
	}
	return newest, nil
}

func readAdvertisers(path string) ([]Advertiser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var advertisers []Advertiser
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		a := Advertiser{
			Query:    field(row, "query"),
			Name:     field(row, "name"),
			URL:      field(row, "url"),
			Region:   field(row, "region"),
			Verified: field(row, "verified") == "true",
		}
		if raw := field(row, "ad_count"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				a.AdCount = n
				a.HasAdCount = true
			}
		}
		if raw := field(row, "scraped_at"); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				a.ScrapedAt = t
			}
		}
		advertisers = append(advertisers, a)
	}

	return advertisers, nil
}

func readCreatives(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	creatives := map[string][]string{}
	if err := json.Unmarshal(data, &creatives); err != nil {
		// Basic-mode exports hold a record list instead of the mapping
		return map[string][]string{}, nil
	}
	return creatives, nil
}
