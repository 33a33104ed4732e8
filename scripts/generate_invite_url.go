package main

import (
	"fmt"
	"log"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

// requiredPermission は、Botが必要とする権限と表示名です
type requiredPermission struct {
	Name  string
	Value int64
}

var requiredPermissions = []requiredPermission{
	{Name: "View Channels", Value: discordgo.PermissionViewChannel},
	{Name: "Send Messages", Value: discordgo.PermissionSendMessages},
	{Name: "Attach Files", Value: discordgo.PermissionAttachFiles},
	{Name: "Read Message History", Value: discordgo.PermissionReadMessageHistory},
	{Name: "Use Application Commands", Value: discordgo.PermissionUseSlashCommands},
}

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("警告: .envファイルの読み込みに失敗しました: %v", err)
	}

	// Bot Tokenを取得
	botToken := os.Getenv("DISCORD_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("DISCORD_BOT_TOKEN が設定されていません")
	}

	// Discordセッションを作成
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		log.Fatalf("Discordセッションの作成に失敗: %v", err)
	}
	defer session.Close()

	// Botの情報を取得
	user, err := session.User("@me")
	if err != nil {
		log.Fatalf("Bot情報の取得に失敗: %v", err)
	}

	fmt.Printf("🤖 Bot情報:\n")
	fmt.Printf("   名前: %s\n", user.Username)
	fmt.Printf("   Client ID: %s\n", user.ID)
	fmt.Println()

	var permissions int64
	for _, p := range requiredPermissions {
		permissions |= p.Value
	}

	// スラッシュコマンドを使うため applications.commands スコープも要求する
	inviteURL := fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands", user.ID, permissions)

	fmt.Printf("🔗 Bot招待URL:\n")
	fmt.Printf("   %s\n", inviteURL)
	fmt.Println()

	fmt.Printf("📋 必要な権限:\n")
	for _, p := range requiredPermissions {
		fmt.Printf("   - %s (%d)\n", p.Name, p.Value)
	}
	fmt.Printf("   - 合計: %d\n", permissions)
	fmt.Println()

	fmt.Printf("🎯 Botの使い方:\n")
	fmt.Printf("   1. 商品写真を添付してBotをメンション: @%s 大理石の上に置いて\n", user.Username)
	fmt.Printf("   2. 操作パネルで背景プリセットを選ぶか、説明を入力\n")
	fmt.Printf("   3. 「生成」を押すと新しい背景の画像が届きます\n")
	fmt.Printf("   4. /studio でパネルを再表示、/reset で最初からやり直せます\n")
}
