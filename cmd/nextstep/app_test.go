package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simonwafula/Nextstepjobs/internal/config"
	"github.com/Simonwafula/Nextstepjobs/internal/scrape"
)

func TestBuildSources_BuiltinsAlwaysRegistered(t *testing.T) {
	cfg := &config.Config{}
	registry := buildSources(cfg, nil)

	names := registry.Names()
	assert.Contains(t, names, "brightermonday")
	assert.Contains(t, names, "indeed")
	assert.Contains(t, names, "linkedin")
}

func TestBuildSources_ConfiguredSitesAdded(t *testing.T) {
	cfg := &config.Config{
		Sites: map[string]scrape.SiteDescriptor{
			"myjobsinkenya": {
				Name:            "myjobsinkenya",
				BaseURL:         "https://www.myjobsinkenya.com",
				ListingPath:     "/jobs?page={page}",
				ListingSelector: "div.job-card",
			},
		},
	}
	registry := buildSources(cfg, nil)

	adapter, err := registry.Get("myjobsinkenya")
	require.NoError(t, err)
	assert.Equal(t, "myjobsinkenya", adapter.Name())
}

func TestBuildSources_UnknownSiteRejected(t *testing.T) {
	registry := buildSources(&config.Config{}, nil)

	_, err := registry.Get("glassdoor")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "available")
}
