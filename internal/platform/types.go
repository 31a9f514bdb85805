// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// types.go defines the wire schemas for every platform API endpoint the
// console consumes. Responses are decoded into these structs at the client
// boundary; handlers never touch raw JSON.
package platform

import "time"

// Role is a platform user's permission level.
type Role string

const (
	RoleUser       Role = "USER"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// User is a platform account as returned by GET /admin/users.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsSuperAdmin returns true for accounts allowed into the console.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// UserRef is the minimal owner reference embedded in domains and leads.
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// DomainStatus is a domain's lifecycle status on the platform.
type DomainStatus string

const (
	DomainActive  DomainStatus = "ACTIVE"
	DomainPending DomainStatus = "PENDING"
)

// NameserverStatus is the tri-state DNS delegation status of a domain.
// An empty value means nameservers were never set.
type NameserverStatus string

const (
	NameserversActive  NameserverStatus = "active"
	NameserversPending NameserverStatus = "pending"
	NameserversUnset   NameserverStatus = ""
)

// Domain is a customer domain as returned by GET /admin/domains.
// Deleting a domain cascades server-side to its websites and content;
// the console only warns the operator.
type Domain struct {
	ID                string           `json:"id"`
	DomainName        string           `json:"domainName"`
	Status            DomainStatus     `json:"status"`
	NameServers       []string         `json:"nameServers"`
	NameServersStatus NameserverStatus `json:"nameServersStatus"`
	User              *UserRef         `json:"user"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// DomainRef is the domain reference embedded in websites and leads.
type DomainRef struct {
	ID         string   `json:"id"`
	DomainName string   `json:"domainName"`
	User       *UserRef `json:"user"`
}

// LogoDisplayMode controls how a website renders its logo.
type LogoDisplayMode string

const (
	LogoOnly     LogoDisplayMode = "logo_only"
	LogoTextOnly LogoDisplayMode = "text_only"
	LogoBoth     LogoDisplayMode = "both"
)

// Website is a generated site as returned by GET /admin/websites.
type Website struct {
	ID                 string          `json:"id"`
	Subdomain          string          `json:"subdomain"`
	TemplateKey        string          `json:"templateKey"`
	AdsEnabled         bool            `json:"adsEnabled"`
	AdsApproved        bool            `json:"adsApproved"`
	ContactFormEnabled bool            `json:"contactFormEnabled"`
	MetaTitle          string          `json:"metaTitle"`
	MetaDescription    string          `json:"metaDescription"`
	MetaKeywords       string          `json:"metaKeywords"`
	MetaAuthor         string          `json:"metaAuthor"`
	InstagramURL       string          `json:"instagramUrl"`
	FacebookURL        string          `json:"facebookUrl"`
	TwitterURL         string          `json:"twitterUrl"`
	ContactEmail       string          `json:"contactEmail"`
	ContactPhone       string          `json:"contactPhone"`
	GoogleAnalyticsID  string          `json:"googleAnalyticsId"`
	LogoDisplayMode    LogoDisplayMode `json:"logoDisplayMode"`
	Domain             *DomainRef      `json:"domain"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// WebsiteSettings is the bulk-settings payload for
// PUT /admin/websites/{id}/settings. Only the fields present in the edit
// form are sent; fields outside the form keep their server values.
type WebsiteSettings struct {
	TemplateKey        string          `json:"templateKey"`
	AdsEnabled         bool            `json:"adsEnabled"`
	ContactFormEnabled bool            `json:"contactFormEnabled"`
	MetaTitle          string          `json:"metaTitle"`
	MetaDescription    string          `json:"metaDescription"`
	MetaKeywords       string          `json:"metaKeywords"`
	MetaAuthor         string          `json:"metaAuthor"`
	InstagramURL       string          `json:"instagramUrl"`
	FacebookURL        string          `json:"facebookUrl"`
	TwitterURL         string          `json:"twitterUrl"`
	ContactEmail       string          `json:"contactEmail"`
	ContactPhone       string          `json:"contactPhone"`
	GoogleAnalyticsID  string          `json:"googleAnalyticsId"`
	LogoDisplayMode    LogoDisplayMode `json:"logoDisplayMode"`
}

// WebsiteRef is the website reference embedded in leads.
type WebsiteRef struct {
	ID        string     `json:"id"`
	Subdomain string     `json:"subdomain"`
	Domain    *DomainRef `json:"domain"`
}

// Lead is a contact-form submission as returned by GET /admin/leads.
type Lead struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Company   string      `json:"company"`
	Message   string      `json:"message"`
	Website   *WebsiteRef `json:"website"`
	CreatedAt time.Time   `json:"createdAt"`
}

// PromptType is the console-facing prompt category. TITLE and CONTENT share
// the TEXT wire representation; IMAGE maps one-to-one.
type PromptType string

const (
	PromptTitle   PromptType = "TITLE"
	PromptContent PromptType = "CONTENT"
	PromptImage   PromptType = "IMAGE"
)

// Wire values accepted and returned by the API for promptType.
const (
	WireText  = "TEXT"
	WireImage = "IMAGE"
)

// WireType collapses the console-facing type to its wire representation:
// TITLE and CONTENT serialize as TEXT, IMAGE as IMAGE.
func (t PromptType) WireType() string {
	if t == PromptImage {
		return WireImage
	}
	return WireText
}

// Prompt is an AI-generation prompt as returned by GET /admin/ai-prompts.
// PromptKey and TemplateKey are immutable after creation.
type Prompt struct {
	ID          string    `json:"id"`
	PromptKey   string    `json:"promptKey"`
	PromptText  string    `json:"promptText"`
	PromptType  string    `json:"promptType"` // wire value: TEXT or IMAGE
	TemplateKey string    `json:"templateKey"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreatePromptRequest is the payload for POST /admin/ai-prompts.
type CreatePromptRequest struct {
	PromptKey   string `json:"promptKey"`
	PromptText  string `json:"promptText"`
	PromptType  string `json:"promptType"` // wire value: TEXT or IMAGE
	TemplateKey string `json:"templateKey"`
}

// UpdatePromptRequest is the payload for PUT /admin/ai-prompts/{id}.
// Key and template are omitted — they cannot change after creation.
type UpdatePromptRequest struct {
	PromptText string `json:"promptText"`
	PromptType string `json:"promptType"` // wire value: TEXT or IMAGE
}

// StorageStats are the per-website aggregate counters in the overview.
type StorageStats struct {
	TotalBlogs      int `json:"totalBlogs"`
	TotalImages     int `json:"totalImages"`
	TotalTextBlocks int `json:"totalTextBlocks"`
	TotalBlocks     int `json:"totalBlocks"`
	TextSizeBytes   int `json:"textSizeBytes"`
	TextSizeKB      int `json:"textSizeKb"`
}

// StorageOverviewItem is one row of GET /admin/storage: a website with its
// precomputed content aggregates. The console never recomputes these.
type StorageOverviewItem struct {
	WebsiteID   string       `json:"websiteId"`
	DomainName  string       `json:"domainName"`
	Subdomain   string       `json:"subdomain"`
	UserEmail   string       `json:"userEmail"`
	UserID      string       `json:"userId"`
	TemplateKey string       `json:"templateKey"`
	CreatedAt   time.Time    `json:"createdAt"`
	Stats       StorageStats `json:"stats"`
}

// ContentBlock is a single stored block inside a blog section.
type ContentBlock struct {
	ID        string    `json:"id"`
	BlockType string    `json:"blockType"`
	SizeBytes int       `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlogSection is one blog unit in the storage detail view: title, optional
// image, and an ordered list of content blocks. Deleting a section removes
// all of it as a unit.
type BlogSection struct {
	SectionID        string         `json:"sectionId"`
	OrderIndex       int            `json:"orderIndex"`
	Title            string         `json:"title"`
	ImageURL         string         `json:"imageUrl"`
	ContentSizeBytes int            `json:"contentSizeBytes"`
	ContentSizeKB    int            `json:"contentSizeKb"`
	BlockCount       int            `json:"blockCount"`
	Blocks           []ContentBlock `json:"blocks"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// StorageDetailStats are the aggregate counters for a single website.
type StorageDetailStats struct {
	TotalBlogs         int `json:"totalBlogs"`
	TotalImages        int `json:"totalImages"`
	TotalTextSizeBytes int `json:"totalTextSizeBytes"`
	TotalTextSizeKB    int `json:"totalTextSizeKb"`
}

// WebsiteStorageDetail is the drill-down payload of GET /admin/storage/{id}.
type WebsiteStorageDetail struct {
	WebsiteID  string             `json:"websiteId"`
	DomainName string             `json:"domainName"`
	Subdomain  string             `json:"subdomain"`
	UserEmail  string             `json:"userEmail"`
	Stats      StorageDetailStats `json:"stats"`
	Blogs      []BlogSection      `json:"blogs"`
}

// StorageProvider is the enumerated backend where new uploads land.
type StorageProvider string

const (
	ProviderRailway    StorageProvider = "railway"
	ProviderCloudinary StorageProvider = "cloudinary"
)

// Valid reports whether p is one of the two supported backends.
func (p StorageProvider) Valid() bool {
	return p == ProviderRailway || p == ProviderCloudinary
}

// Stats is the dashboard payload of GET /admin/stats.
type Stats struct {
	TotalUsers    int      `json:"totalUsers"`
	TotalDomains  int      `json:"totalDomains"`
	TotalWebsites int      `json:"totalWebsites"`
	TotalLeads    int      `json:"totalLeads"`
	TotalPrompts  int      `json:"totalPrompts"`
	RecentUsers   []User   `json:"recentUsers"`
	RecentDomains []Domain `json:"recentDomains"`
}

// LoginResult is the response of POST /auth/login.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
