package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"household-meal-planner/internal/config"
	"household-meal-planner/internal/metrics"
	"household-meal-planner/internal/planner"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxListedFailures caps how many failed members a report names.
const maxListedFailures = 10

// Sender is the part of the Telegram API the bot needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// History supplies recent refresh runs for the /history command.
type History interface {
	Recent(ctx context.Context, limit int) ([]metrics.RefreshRun, error)
}

// RefreshTrigger starts a bulk refresh and reports whether it ran.
type RefreshTrigger func(ctx context.Context, source string) bool

// Bot reports refresh runs to the admin chat and answers admin commands.
type Bot struct {
	api         Sender
	adminChatID int64
	history     History
	dataPath    string
	trigger     RefreshTrigger
}

// NewBot initializes the Telegram API and, when a webhook URL is
// configured, registers it.
func NewBot(cfg *config.Config, history History, dataPath string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	if cfg.TelegramWebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
		}
		resp, err := api.Request(wh)
		if err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
		}
		log.Printf("Webhook set response: %s", resp.Description)
	}

	return newBot(api, cfg.TelegramAdminChatID, history, dataPath), nil
}

func newBot(api Sender, adminChatID int64, history History, dataPath string) *Bot {
	return &Bot{
		api:         api,
		adminChatID: adminChatID,
		history:     history,
		dataPath:    dataPath,
	}
}

// SetRefreshTrigger wires the /refresh command.
func (b *Bot) SetRefreshTrigger(trigger RefreshTrigger) {
	b.trigger = trigger
}

// NotifyRefresh sends a run summary to the admin chat.
func (b *Bot) NotifyRefresh(run metrics.RefreshRun, failures []planner.MemberFailure) {
	b.sendAdmin(formatRefreshReport(run, failures))
}

// WebhookHandler receives updates pushed by Telegram.
func (b *Bot) WebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			log.Printf("Error parsing update: %v", err)
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)

		if update.Message == nil {
			return
		}
		go b.processMessage(update.Message)
	}
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.Chat.ID != b.adminChatID {
		from := ""
		if msg.From != nil {
			from = msg.From.UserName
		}
		log.Printf("⚠️ Ignoring message from non-admin chat (@%s)", from)
		return
	}

	switch msg.Command() {
	case "history":
		b.handleHistoryCommand()
	case "refresh":
		b.handleRefreshCommand()
	default:
		b.sendAdmin("Commands: /history, /refresh")
	}
}

func (b *Bot) handleHistoryCommand() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runs, err := b.history.Recent(ctx, 5)
	if err != nil {
		log.Printf("Failed to load refresh history: %v", err)
		b.sendAdmin("❌ Error fetching refresh history.")
		return
	}
	b.sendAdmin(formatHistory(runs, metrics.GetSysHealth(b.dataPath)))
}

func (b *Bot) handleRefreshCommand() {
	if b.trigger == nil {
		b.sendAdmin("⛔ Refresh is not available.")
		return
	}
	b.sendAdmin("🔄 *Refreshing meal plans...*")
	if !b.trigger(context.Background(), metrics.SourceManual) {
		b.sendAdmin("⏳ A refresh is already running.")
	}
}

func (b *Bot) sendAdmin(text string) {
	if b.adminChatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(b.adminChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send admin message: %v", err)
	}
}

func formatRefreshReport(run metrics.RefreshRun, failures []planner.MemberFailure) string {
	var sb strings.Builder
	if run.Error != "" {
		sb.WriteString("❌ *Meal Plan Refresh Failed*\n\n")
		sb.WriteString(fmt.Sprintf("```\n%s\n```\n", strings.ReplaceAll(run.Error, "`", "'")))
		return sb.String()
	}

	if run.Failed > 0 {
		sb.WriteString("⚠️ *Meal Plan Refresh Finished With Errors*\n\n")
	} else {
		sb.WriteString("✅ *Meal Plan Refresh Complete*\n\n")
	}
	sb.WriteString(fmt.Sprintf("• Source: %s\n", run.Source))
	sb.WriteString(fmt.Sprintf("• Members: %d\n", run.Members))
	sb.WriteString(fmt.Sprintf("• Updated: %d\n", run.Succeeded))
	sb.WriteString(fmt.Sprintf("• Failed: %d\n", run.Failed))
	sb.WriteString(fmt.Sprintf("• Took: %s\n", run.Duration().Round(time.Millisecond)))

	if len(failures) > 0 {
		sb.WriteString("\n*Failures*\n")
		for i, f := range failures {
			if i == maxListedFailures {
				sb.WriteString(fmt.Sprintf("_...and %d more_\n", len(failures)-maxListedFailures))
				break
			}
			sb.WriteString(fmt.Sprintf("• `%s`: %s\n", f.MemberID, strings.ReplaceAll(f.Err.Error(), "`", "'")))
		}
	}
	return sb.String()
}

func formatHistory(runs []metrics.RefreshRun, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Refresh History & Health*\n\n")

	sb.WriteString("🗓 *Recent Runs*\n")
	if len(runs) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, r := range runs {
		sb.WriteString(fmt.Sprintf("• *%s* (%s): %d/%d updated", r.StartedAt.Format("2006-01-02 15:04"), r.Source, r.Succeeded, r.Members))
		if r.Error != "" {
			sb.WriteString(" ❌")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
