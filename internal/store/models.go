// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

// Run is one finished link verification run.
type Run struct {
	ID                 uint           `gorm:"primaryKey"`
	BaseURL            string         `gorm:"index;not null"`
	Timestamp          string         `gorm:"not null"` // ISO-8601 UTC, as written in the JSON report
	GeneratedAt        int64          `gorm:"index"`    // unix milliseconds
	TotalPagesVisited  int            `gorm:"default:0"`
	TotalExternalLinks int            `gorm:"default:0"`
	TotalBlogPosts     int            `gorm:"default:0"`
	TotalSocialLinks   int            `gorm:"default:0"`
	Truncated          bool           `gorm:"default:false"`
	BlogPosts          []BlogPost     `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	ExternalLinks      []ExternalLink `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	SocialLinks        []SocialLink   `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	CreatedAt          int64          `gorm:"autoCreateTime"`
}

// BlogPost is a post discovered on a blog listing page.
type BlogPost struct {
	ID    uint   `gorm:"primaryKey"`
	RunID uint   `gorm:"index;not null"`
	URL   string `gorm:"not null"`
	Title string `gorm:"type:text"`
}

// ExternalLink is an off-site, non-social anchor with its source page.
type ExternalLink struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     uint   `gorm:"index;not null"`
	URL       string `gorm:"not null"`
	Text      string `gorm:"type:text"`
	SourceURL string `gorm:"not null"`
	PageTitle string `gorm:"type:text"`
	Position  string
	X         *float64
	Y         *float64
}

// SocialLink is a link to a social network.
type SocialLink struct {
	ID    uint   `gorm:"primaryKey"`
	RunID uint   `gorm:"index;not null"`
	URL   string `gorm:"not null"`
}
