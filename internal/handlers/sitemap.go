package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaushal1717/vibe-helper/internal/config"
	"github.com/kaushal1717/vibe-helper/internal/database"
	"github.com/kaushal1717/vibe-helper/internal/models"
)

// Sitemap Cache
var (
	sitemapCache     []byte
	sitemapRefreshed time.Time
	sitemapMutex     sync.RWMutex
	cacheDuration    = 6 * time.Hour
)

func siteBaseURL() string {
	if config.AppConfig != nil && config.AppConfig.AppURL != "" {
		return config.AppConfig.AppURL
	}
	return "http://localhost:3000"
}

// SitemapEntry represents a single URL entry in the sitemap
type SitemapEntry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   string   `xml:"priority,omitempty"`
}

// URLSet is the root element of the sitemap
type URLSet struct {
	XMLName xml.Name       `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []SitemapEntry `xml:"url"`
}

// GenerateSitemap handles the dynamic sitemap generation with caching
func GenerateSitemap(c *gin.Context) {
	sitemapMutex.RLock()
	if sitemapCache != nil && time.Since(sitemapRefreshed) < cacheDuration {
		c.Header("Content-Type", "application/xml")
		c.Writer.Write(sitemapCache)
		sitemapMutex.RUnlock()
		return
	}
	sitemapMutex.RUnlock()

	baseURL := siteBaseURL()
	var urls []SitemapEntry

	staticPages := []string{"", "/rules", "/request-rule", "/add-rule"}
	for _, p := range staticPages {
		urls = append(urls, SitemapEntry{
			Loc:        baseURL + p,
			ChangeFreq: "daily",
			Priority:   "0.8",
		})
	}

	var rules []models.CursorRule
	database.DB.Select("id, updated_at").Where("is_public = ?", true).Order("created_at desc").Limit(2000).Find(&rules)
	for _, r := range rules {
		urls = append(urls, SitemapEntry{
			Loc:        fmt.Sprintf("%s/rules/%s", baseURL, r.ID),
			LastMod:    r.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	urlSet := URLSet{URLs: urls}

	output, err := xml.MarshalIndent(urlSet, "", "  ")
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	finalXML := []byte(xml.Header + string(output))

	sitemapMutex.Lock()
	sitemapCache = finalXML
	sitemapRefreshed = time.Now()
	sitemapMutex.Unlock()

	c.Header("Content-Type", "application/xml")
	c.Writer.Write(finalXML)
}

// GenerateRobotsTXT returns the robots.txt file
func GenerateRobotsTXT(c *gin.Context) {
	robots := fmt.Sprintf(`User-agent: *
Allow: /
Disallow: /admin
Disallow: /api
Disallow: /my-requests
Disallow: /auth

Sitemap: %s/sitemap.xml`, siteBaseURL())

	c.Header("Content-Type", "text/plain")
	c.String(http.StatusOK, robots)
}
