package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source describes one feed to poll.
type Source struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// DefaultSources is the built-in list of logistics feeds.
func DefaultSources() []Source {
	return []Source{
		{Name: "Supply Chain Dive", URL: "https://www.supplychaindive.com/feeds/news/"},
		{Name: "Inbound Logistics", URL: "https://www.inboundlogistics.com/articles/feed/"},
		{Name: "Logistics Management", URL: "https://www.logisticsmgmt.com/rss/topic/containers-intermodal"},
		{Name: "FreightWaves", URL: "https://www.freightwaves.com/news/feed"},
		{Name: "JOC.com", URL: "https://www.joc.com/rss/all-news"},
		{Name: "American Shipper", URL: "https://www.americanshipper.com/rss"},
		{Name: "Seatrade Maritime", URL: "https://www.seatrade-maritime.com/rss.xml"},
		{Name: "gCaptain Maritime", URL: "https://gcaptain.com/feed/"},
		{Name: "Transport Topics", URL: "https://www.ttnews.com/rss/articles/latest"},
		{Name: "Trucking Info", URL: "https://www.truckinginfo.com/rss/feed/10/"},
		{Name: "Overdrive", URL: "https://www.overdriveonline.com/feed/"},
		{Name: "Railway Age", URL: "https://www.railwayage.com/feed/"},
		{Name: "Progressive Railroading", URL: "https://www.progressiverailroading.com/rss/"},
		{Name: "Air Cargo News", URL: "https://www.aircargonews.net/feed/"},
		{Name: "Air Cargo Week", URL: "https://www.aircargoweek.com/feed/"},
		{Name: "Port Technology", URL: "https://www.portechnology.org/feed/"},
		{Name: "DC Velocity", URL: "https://www.dcvelocity.com/rss/"},
		{Name: "Material Handling & Logistics", URL: "https://www.mhlnews.com/rss-feeds"},
		{Name: "JOC Trade Lanes", URL: "https://www.joc.com/rss/maritime-news/trade-lanes"},
	}
}

// LoadSources reads a source list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file %s: %w", path, err)
	}
	var sources []Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("sources file %s is empty", path)
	}
	return sources, nil
}
