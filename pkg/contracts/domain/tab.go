package domain

import (
	"fmt"
	"strings"
)

// Tab identifies a dashboard page.
type Tab string

const (
	TabChoropleth  Tab = "choropleth"
	TabSectors     Tab = "sectors"
	TabCountries   Tab = "countries"
	TabTopEmitters Tab = "top-emitters"
	TabCO2GDP      Tab = "co2-gdp"
	TabForecast    Tab = "forecast"
)

// DefaultTab is the page shown before any navigation.
const DefaultTab = TabChoropleth

var tabTitles = map[Tab]string{
	TabChoropleth:  "Choropleth Map",
	TabSectors:     "Sector-wise Analysis",
	TabCountries:   "Country-wise Emissions",
	TabTopEmitters: "Top Emitters",
	TabCO2GDP:      "CO₂ vs GDP",
	TabForecast:    "LSTM Forecast",
}

// AllTabs returns the tabs in sidebar order.
func AllTabs() []Tab {
	return []Tab{TabChoropleth, TabSectors, TabCountries, TabTopEmitters, TabCO2GDP, TabForecast}
}

// Title returns the display title of the tab.
func (t Tab) Title() string {
	return tabTitles[t]
}

// Valid reports whether t is one of the known tabs.
func (t Tab) Valid() bool {
	_, ok := tabTitles[t]
	return ok
}

// ParseTab parses a tab identifier, case-insensitively.
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tab %q", s)
	}
	return t, nil
}

// TabInfo is the JSON description of a tab.
type TabInfo struct {
	ID    Tab    `json:"id"`
	Title string `json:"title"`
}

// TabInfos describes all tabs in sidebar order.
func TabInfos() []TabInfo {
	tabs := AllTabs()
	infos := make([]TabInfo, 0, len(tabs))
	for _, t := range tabs {
		infos = append(infos, TabInfo{ID: t, Title: t.Title()})
	}
	return infos
}
