// Package telegram runs the companion bot: /start hands out the mini-app link and
// /login binds a Telegram account to a sales representative.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/rfqdesk/internal/auth"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/types"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	msgWelcome       = "👋 مرحباً بك في نظام المندوبين!\nاضغط على الزر أدناه لفتح التطبيق."
	msgOpenApp       = "🚀 فتح التطبيق"
	msgLoginUsage    = "❌ استخدم: /login username password"
	msgLoginRejected = "❌ اسم مستخدم أو كلمة مرور غير صحيحة"
	msgLoginFailed   = "⚠️ حدث خطأ"
	msgLoginWelcome  = "✅ مرحباً %s!\nيمكنك الآن فتح التطبيق من القائمة."

	pollTimeoutSeconds = 60
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot answers commands through the Bot API using long polling.
type Bot struct {
	api       botAPI
	auth      auth.Service
	webAppURL string
	logg      *logger.Logger
}

// New connects to the Bot API with token.
func New(token, webAppURL string, authSvc auth.Service, logg *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("connecting telegram bot: %w", err)
	}
	return newBot(api, webAppURL, authSvc, logg), nil
}

func newBot(api botAPI, webAppURL string, authSvc auth.Service, logg *logger.Logger) *Bot {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Bot{api: api, auth: authSvc, webAppURL: webAppURL, logg: logg}
}

// WebAppURL normalizes the public URL of the mini-app. An empty value falls back to
// the local server; a missing scheme becomes https and a trailing slash is dropped.
func WebAppURL(raw, port string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		url = "http://localhost:" + port
	}
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}
	return strings.TrimSuffix(url, "/")
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.logg.Info(b.logg.WithField(ctx, "webapp_url", b.webAppURL), "telegram.bot_started")
	for {
		select {
		case <-ctx.Done():
			b.logg.Info(ctx, "telegram.bot_stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || !msg.IsCommand() {
		return
	}
	ctx = b.logg.WithFields(ctx, map[string]any{"chat_id": msg.Chat.ID, "command": msg.Command()})

	var reply tgbotapi.MessageConfig
	switch msg.Command() {
	case "start":
		reply = b.startReply(msg.Chat.ID)
	case "login":
		var from int64
		if msg.From != nil {
			from = msg.From.ID
		}
		reply = tgbotapi.NewMessage(msg.Chat.ID, b.login(ctx, from, msg.CommandArguments()))
	default:
		return
	}

	if _, err := b.api.Send(reply); err != nil {
		b.logg.Error(ctx, "telegram.send_failed", err)
	}
}

func (b *Bot) startReply(chatID int64) tgbotapi.MessageConfig {
	reply := tgbotapi.NewMessage(chatID, msgWelcome)
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(msgOpenApp, b.webAppURL)),
	)
	return reply
}

// login runs the regular credential check and returns the text to send back.
func (b *Bot) login(ctx context.Context, telegramID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return msgLoginUsage
	}

	resp, err := b.auth.Login(ctx, auth.LoginRequest{
		Username:   types.FlexString(fields[0]),
		Password:   types.FlexString(fields[1]),
		TelegramID: types.FlexString(strconv.FormatInt(telegramID, 10)),
	})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			return msgLoginRejected
		}
		b.logg.Error(ctx, "telegram.login_failed", err)
		return msgLoginFailed
	}
	return fmt.Sprintf(msgLoginWelcome, resp.User.FullName)
}
