package domain

import "fmt"

// User は、Discordのユーザー情報を表現する値オブジェクトです
type User struct {
	ID          string
	Username    string
	DisplayName string
	IsBot       bool
}

// GetDisplayName は、表示名がなければユーザー名を返します
func (u User) GetDisplayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Attachment は、メッセージに添付されたファイルの情報です
type Attachment struct {
	ID          string
	Filename    string
	ContentType string
	Size        int64
	URL         string
}

// FileInfo は、添付ファイルを検証用のFileInfoに変換します
func (a Attachment) FileInfo() FileInfo {
	return FileInfo{
		Name:     a.Filename,
		MIMEType: a.ContentType,
		Size:     a.Size,
	}
}

// StudioMention は、画像付きでBotがメンションされた情報を表現する値オブジェクトです
type StudioMention struct {
	ChannelID   string
	GuildID     string
	User        User
	Content     string
	MessageID   string
	Attachments []Attachment
}

// SessionKey は、チャンネルとユーザーの組からセッションIDを返します
func (m StudioMention) SessionKey() string {
	return SessionKey(m.ChannelID, m.User.ID)
}

// FirstImage は、最初の添付ファイルを返します
func (m StudioMention) FirstImage() (Attachment, bool) {
	if len(m.Attachments) == 0 {
		return Attachment{}, false
	}
	return m.Attachments[0], true
}

// String はStudioMentionの文字列表現を返します
func (m StudioMention) String() string {
	return fmt.Sprintf("StudioMention{ChannelID: %s, GuildID: %s, User: %s, Attachments: %d, MessageID: %s}",
		m.ChannelID, m.GuildID, m.User.Username, len(m.Attachments), m.MessageID)
}

// SessionKey は、Discordのチャンネルとユーザーから一意なセッションIDを作成します
func SessionKey(channelID, userID string) string {
	return channelID + ":" + userID
}
