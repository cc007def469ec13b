package types

import "github.com/ocx/dgo/snowflake"

// MessageType enumerates the wire message type codes (spec §3).
type MessageType int

const (
	MessageTypeDefault MessageType = 0
)

// Attachment is a file attached to a Message (spec §3).
type Attachment struct {
	ID       snowflake.ID `json:"id" etf:"id"`
	Filename string       `json:"filename" etf:"filename"`
	Size     int          `json:"size" etf:"size"`
	URL      string       `json:"url" etf:"url"`
	ProxyURL string       `json:"proxy_url" etf:"proxy_url"`
	Height   Optional[int] `json:"height,omitempty" etf:"height"`
	Width    Optional[int] `json:"width,omitempty" etf:"width"`
}

// EmbedFooter, EmbedImage, EmbedThumbnail, EmbedVideo, EmbedProvider,
// EmbedAuthor, and EmbedField are the rich-embed sub-structures (spec §3).
type EmbedFooter struct {
	Text         string           `json:"text" etf:"text"`
	IconURL      Optional[string] `json:"icon_url,omitempty" etf:"icon_url"`
	ProxyIconURL Optional[string] `json:"proxy_icon_url,omitempty" etf:"proxy_icon_url"`
}

type EmbedImage struct {
	URL      Optional[string] `json:"url,omitempty" etf:"url"`
	ProxyURL Optional[string] `json:"proxy_url,omitempty" etf:"proxy_url"`
	Height   Optional[int]    `json:"height,omitempty" etf:"height"`
	Width    Optional[int]    `json:"width,omitempty" etf:"width"`
}

type EmbedThumbnail struct {
	URL      Optional[string] `json:"url,omitempty" etf:"url"`
	ProxyURL Optional[string] `json:"proxy_url,omitempty" etf:"proxy_url"`
	Height   Optional[int]    `json:"height,omitempty" etf:"height"`
	Width    Optional[int]    `json:"width,omitempty" etf:"width"`
}

type EmbedVideo struct {
	URL    Optional[string] `json:"url,omitempty" etf:"url"`
	Height Optional[int]    `json:"height,omitempty" etf:"height"`
	Width  Optional[int]    `json:"width,omitempty" etf:"width"`
}

type EmbedProvider struct {
	Name Optional[string] `json:"name,omitempty" etf:"name"`
	URL  Optional[string] `json:"url,omitempty" etf:"url"`
}

type EmbedAuthor struct {
	Name         Optional[string] `json:"name,omitempty" etf:"name"`
	URL          Optional[string] `json:"url,omitempty" etf:"url"`
	IconURL      Optional[string] `json:"icon_url,omitempty" etf:"icon_url"`
	ProxyIconURL Optional[string] `json:"proxy_icon_url,omitempty" etf:"proxy_icon_url"`
}

type EmbedField struct {
	Name   string `json:"name" etf:"name"`
	Value  string `json:"value" etf:"value"`
	Inline bool   `json:"inline" etf:"inline"`
}

// Embed is a rich message embed (spec §3).
type Embed struct {
	Title       Optional[string]  `json:"title,omitempty" etf:"title"`
	Type        Optional[string]  `json:"type,omitempty" etf:"type"`
	Description Optional[string]  `json:"description,omitempty" etf:"description"`
	URL         Optional[string]  `json:"url,omitempty" etf:"url"`
	Timestamp   Optional[string]  `json:"timestamp,omitempty" etf:"timestamp"`
	Color       Optional[int]     `json:"color,omitempty" etf:"color"`
	Footer      *EmbedFooter      `json:"footer,omitempty" etf:"footer"`
	Image       *EmbedImage       `json:"image,omitempty" etf:"image"`
	Thumbnail   *EmbedThumbnail   `json:"thumbnail,omitempty" etf:"thumbnail"`
	Video       *EmbedVideo       `json:"video,omitempty" etf:"video"`
	Provider    *EmbedProvider    `json:"provider,omitempty" etf:"provider"`
	Author      *EmbedAuthor      `json:"author,omitempty" etf:"author"`
	Fields      []EmbedField      `json:"fields,omitempty" etf:"fields"`
}

// Reaction aggregates one emoji's reaction count on a Message (spec §3).
type Reaction struct {
	Count int   `json:"count" etf:"count"`
	Me    bool  `json:"me" etf:"me"`
	Emoji Emoji `json:"emoji" etf:"emoji"`
}

// Message is a server-modeled channel message (spec §3).
type Message struct {
	ID              snowflake.ID           `json:"id" etf:"id"`
	ChannelID       snowflake.ID           `json:"channel_id" etf:"channel_id"`
	GuildID         Optional[snowflake.ID] `json:"guild_id,omitempty" etf:"guild_id"`
	Author          User                   `json:"author" etf:"author"`
	Member          *GuildMember           `json:"member,omitempty" etf:"member"`
	Content         string                 `json:"content" etf:"content"`
	Timestamp       string                 `json:"timestamp" etf:"timestamp"`
	EditedTimestamp Optional[string]       `json:"edited_timestamp,omitempty" etf:"edited_timestamp"`
	TTS             bool                   `json:"tts" etf:"tts"`
	MentionEveryone bool                   `json:"mention_everyone" etf:"mention_everyone"`
	Mentions        []User                 `json:"mentions" etf:"mentions"`
	MentionRoles    []snowflake.ID         `json:"mention_roles" etf:"mention_roles"`
	Attachments     []Attachment           `json:"attachments" etf:"attachments"`
	Embeds          []Embed                `json:"embeds" etf:"embeds"`
	Reactions       []Reaction             `json:"reactions,omitempty" etf:"reactions"`
	Pinned          bool                   `json:"pinned" etf:"pinned"`
	WebhookID       Optional[snowflake.ID] `json:"webhook_id,omitempty" etf:"webhook_id"`
	Type            MessageType            `json:"type" etf:"type"`
}
