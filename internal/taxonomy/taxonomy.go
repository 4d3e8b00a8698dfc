// Package taxonomy holds the keyword mappings that drive alert
// classification. The compiled-in defaults cover the logistics domain;
// deployments can override any section from a YAML file so the lists
// stay versionable configuration rather than code.
package taxonomy

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Taxonomy maps labels to the keywords that trigger them. A Taxonomy is
// built once at startup and treated as immutable afterwards.
type Taxonomy struct {
	Categories     map[string][]string `yaml:"categories"`
	Regions        map[string][]string `yaml:"regions"`
	SeverityHigh   []string            `yaml:"severity_high"`
	SeverityMedium []string            `yaml:"severity_medium"`
}

// Default returns the built-in logistics taxonomy.
func Default() *Taxonomy {
	return &Taxonomy{
		Categories: map[string][]string{
			"port":        {"port", "harbor", "terminal", "dock", "vessel", "berth", "anchorage", "quay"},
			"shipping":    {"shipping", "freight", "cargo", "container", "vessel", "ocean freight", "maritime"},
			"trucking":    {"truck", "trucking", "driver", "highway", "road freight", "motor carrier", "cdl"},
			"rail":        {"rail", "train", "railroad", "freight train", "intermodal", "railway"},
			"air":         {"air cargo", "airline", "aviation", "airport", "air freight", "aircraft"},
			"warehousing": {"warehouse", "distribution center", "fulfillment", "3pl", "storage"},
			"shortage":    {"shortage", "scarce", "supply shortage", "out of stock", "unavailable", "scarcity"},
			"delay":       {"delay", "delayed", "postponed", "late", "behind schedule", "backlog"},
			"disruption":  {"disruption", "disrupted", "interrupted", "suspended", "halt", "stoppage"},
			"customs":     {"customs", "tariff", "duty", "border", "cbp", "import", "export"},
			"weather":     {"storm", "hurricane", "typhoon", "flood", "snow", "ice", "weather"},
			"labor":       {"strike", "union", "workers", "labor dispute", "walkout", "protest"},
		},
		Regions: map[string][]string{
			"us_northeast":         {"new york", "new jersey", "pennsylvania", "connecticut", "massachusetts", "rhode island", "vermont", "new hampshire", "maine", "boston", "philadelphia", "newark", "jfk"},
			"us_southeast":         {"florida", "georgia", "south carolina", "north carolina", "virginia", "west virginia", "miami", "atlanta", "charleston", "norfolk", "savannah", "jacksonville"},
			"us_midwest":           {"illinois", "indiana", "michigan", "ohio", "wisconsin", "minnesota", "iowa", "chicago", "detroit", "cleveland", "cincinnati", "milwaukee"},
			"us_south_central":     {"texas", "oklahoma", "arkansas", "louisiana", "houston", "dallas", "new orleans", "san antonio", "austin"},
			"us_great_plains":      {"kansas", "nebraska", "south dakota", "north dakota", "kansas city", "omaha"},
			"us_mountain":          {"colorado", "utah", "wyoming", "montana", "idaho", "denver", "salt lake city"},
			"us_southwest":         {"arizona", "new mexico", "nevada", "phoenix", "tucson", "las vegas", "albuquerque"},
			"us_west_coast":        {"california", "los angeles", "long beach", "oakland", "san francisco", "san diego", "la", "sf bay"},
			"us_pacific_northwest": {"washington", "oregon", "seattle", "portland", "tacoma", "spokane"},
			"us_alaska":            {"alaska", "anchorage", "fairbanks"},
			"us_hawaii":            {"hawaii", "honolulu", "oahu", "maui"},
			"us_territories":       {"puerto rico", "guam", "virgin islands", "san juan"},
			"canada_east":          {"quebec", "ontario", "maritime", "montreal", "toronto", "ottawa", "halifax", "new brunswick", "nova scotia"},
			"canada_west":          {"british columbia", "alberta", "saskatchewan", "manitoba", "vancouver", "calgary", "edmonton", "winnipeg"},
			"mexico_north":         {"tijuana", "mexicali", "ciudad juarez", "chihuahua", "monterrey", "nuevo laredo"},
			"mexico_central":       {"mexico city", "guadalajara", "puebla", "queretaro", "cdmx"},
			"mexico_south":         {"veracruz", "merida", "cancun", "acapulco", "oaxaca"},
			"europe_north":         {"uk", "ireland", "scandinavia", "norway", "sweden", "denmark", "finland", "london", "dublin"},
			"europe_west":          {"france", "belgium", "netherlands", "luxembourg", "paris", "rotterdam", "antwerp", "amsterdam"},
			"europe_central":       {"germany", "poland", "czech", "austria", "switzerland", "berlin", "hamburg", "vienna"},
			"europe_south":         {"spain", "italy", "portugal", "greece", "barcelona", "madrid", "rome", "athens"},
			"asia_east":            {"china", "japan", "south korea", "taiwan", "shanghai", "beijing", "tokyo", "seoul", "hong kong"},
			"asia_southeast":       {"singapore", "malaysia", "thailand", "vietnam", "indonesia", "philippines", "bangkok"},
			"asia_south":           {"india", "pakistan", "bangladesh", "mumbai", "delhi", "chennai"},
			"middle_east":          {"dubai", "saudi", "uae", "qatar", "kuwait", "jeddah", "riyadh"},
			"latin_america":        {"brazil", "argentina", "chile", "colombia", "peru", "buenos aires", "sao paulo", "santos"},
			"africa":               {"south africa", "kenya", "nigeria", "egypt", "durban", "cape town", "lagos", "suez"},
			"oceania":              {"australia", "new zealand", "sydney", "melbourne", "auckland"},
		},
		SeverityHigh:   []string{"crisis", "severe", "critical", "emergency", "major disruption", "suspended", "closed", "shutdown"},
		SeverityMedium: []string{"delay", "congestion", "shortage", "limited", "reduced", "slowdown"},
	}
}

// Load reads a taxonomy override from a YAML file. Sections omitted in
// the file keep their defaults.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file %s: %w", path, err)
	}
	t := Default()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse taxonomy file %s: %w", path, err)
	}
	return t, nil
}

// CategoryLabels returns all category labels in sorted order.
func (t *Taxonomy) CategoryLabels() []string { return sortedKeys(t.Categories) }

// RegionLabels returns all region labels in sorted order.
func (t *Taxonomy) RegionLabels() []string { return sortedKeys(t.Regions) }

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
