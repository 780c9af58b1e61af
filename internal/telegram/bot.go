package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"outfit-planner/internal/backend"
	"outfit-planner/internal/config"
	"outfit-planner/internal/metrics"
	"outfit-planner/internal/outfit"
	"outfit-planner/internal/planner"
	"outfit-planner/internal/view"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API and drives one plan controller per chat.
type Bot struct {
	api          *tgbotapi.BotAPI
	backend      backend.API
	metricsStore *metrics.Store
	cfg          *config.Config

	mu    sync.Mutex
	chats map[int64]*chatSession
}

// chatSession is one chat's planning state: its controller plus the
// calendar month and pending input it is looking at.
type chatSession struct {
	controller *planner.Controller
	year       int
	month      time.Month
	awaiting   string // "location" while the next text message is a place query
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, api backend.API, metricsStore *metrics.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		backend:      api,
		metricsStore: metricsStore,
		cfg:          cfg,
		chats:        make(map[int64]*chatSession),
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		if b.allowed(update.CallbackQuery.From.ID) {
			b.handleCallbackQuery(update.CallbackQuery)
		}
		return
	}

	if update.Message == nil {
		return
	}

	if !b.allowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) allowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) session(chatID int64) *chatSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.chats[chatID]; ok {
		return s
	}
	backoff := planner.Backoff{
		Delay:      b.cfg.GenerateDelay,
		Retries:    b.cfg.GenerateRetries,
		RetryDelay: b.cfg.GenerateRetryDelay,
	}
	now := time.Now().UTC()
	s := &chatSession{
		controller: planner.NewController(b.backend, backoff),
		year:       now.Year(),
		month:      now.Month(),
	}
	b.chats[chatID] = s
	return s
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx := context.Background()
	s := b.session(msg.Chat.ID)

	switch {
	case msg.Text == "/start" || msg.Text == "/plan":
		s.awaiting = ""
		s.controller.DiscardSession()
		if err := s.controller.LoadSavedPlans(ctx); err != nil {
			log.Printf("Error loading saved plans: %v", err)
		}
		b.sendCalendar(msg.Chat.ID, s, "👗 *Plan Ahead*\nPick a date, or /trip for a multi-day trip.")
	case msg.Text == "/trip":
		s.awaiting = ""
		s.controller.SetMode(planner.ModeMulti)
		b.sendCalendar(msg.Chat.ID, s, "🧳 *Trip mode*\nPick the first and last day of your trip.")
	case msg.Text == "/metrics":
		b.handleMetricsRequest(msg)
	case s.awaiting == "location":
		b.handleLocationReply(ctx, msg, s)
	default:
		b.send(msg.Chat.ID, "Use /plan to plan one day, /trip for a trip.")
	}
}

func (b *Bot) handleLocationReply(ctx context.Context, msg *tgbotapi.Message, s *chatSession) {
	places, err := b.backend.Autocomplete(ctx, msg.Text)
	if err != nil || len(places) == 0 {
		b.send(msg.Chat.ID, "🤷 Couldn't find that place, try another spelling.")
		return
	}
	s.awaiting = ""
	s.controller.SetPlace(places[0].Label, places[0].Lat, places[0].Lon)

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(outfit.Occasions))
	for _, occ := range outfit.Occasions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(outfit.OccasionIcon(occ)+" "+occ, "occ|"+occ),
		))
	}
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("📍 *%s*\nWhat's the occasion?", places[0].Label))
	reply.ParseMode = "Markdown"
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.api.Send(reply)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx := context.Background()
	s := b.session(query.Message.Chat.ID)
	chatID := query.Message.Chat.ID

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	parts := strings.SplitN(query.Data, "|", 3)
	action := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch action {
	case "cal":
		b.shiftMonth(s, arg)
		b.sendCalendar(chatID, s, "🗓 Pick a date.")
	case "day":
		b.handleDaySelected(chatID, s, arg)
	case "occ":
		s.controller.SetOccasion(arg)
		b.generateSession(ctx, chatID, s)
	case "like":
		b.handleLike(ctx, chatID, s, arg)
	case "dislike":
		if err := s.controller.DislikeDate(ctx, arg); err != nil {
			b.send(chatID, "❌ "+err.Error())
		}
		b.sendCurrentSlide(chatID, s)
	case "weather":
		if len(parts) < 3 {
			return
		}
		if err := s.controller.RegenerateMissing(ctx, arg, parts[2]); err != nil {
			b.send(chatID, "❌ "+err.Error())
		}
		b.sendCurrentSlide(chatID, s)
	case "slide":
		if arg == "next" {
			s.controller.NextSlide()
		} else {
			s.controller.PrevSlide()
		}
		b.sendCurrentSlide(chatID, s)
	case "regen":
		if err := s.controller.RegenerateDate(ctx, arg); err != nil {
			b.send(chatID, "❌ "+err.Error())
			return
		}
		b.sendCurrentSlide(chatID, s)
	case "del":
		if err := s.controller.DeleteDate(ctx, arg); err != nil {
			b.send(chatID, "❌ "+err.Error())
			return
		}
		b.sendCalendar(chatID, s, "🗑 Plan removed.")
	case "discard":
		s.controller.DiscardSession()
		b.sendCalendar(chatID, s, "Session discarded. Pick a date.")
	}
}

func (b *Bot) shiftMonth(s *chatSession, dir string) {
	t := time.Date(s.year, s.month, 1, 0, 0, 0, 0, time.UTC)
	if dir == "next" {
		t = t.AddDate(0, 1, 0)
	} else {
		t = t.AddDate(0, -1, 0)
	}
	s.year, s.month = t.Year(), t.Month()
}

func (b *Bot) handleDaySelected(chatID int64, s *chatSession, date string) {
	sel, err := s.controller.SelectDate(date)
	if err != nil {
		b.send(chatID, "❌ "+err.Error())
		return
	}
	switch sel {
	case planner.SelectionOpenSaved:
		b.sendSavedDay(chatID, s, date)
	case planner.SelectionRangeStarted:
		b.sendCalendar(chatID, s, fmt.Sprintf("🗓 *%s* picked. Now pick the last day.", date))
	case planner.SelectionOpenInput:
		s.awaiting = "location"
		b.send(chatID, "📍 Where will you be? Type a city or place.")
	}
}

func (b *Bot) generateSession(ctx context.Context, chatID int64, s *chatSession) {
	dates := s.controller.SelectedDates()
	if len(dates) == 0 {
		b.send(chatID, "Pick a date first with /plan.")
		return
	}

	thinking := tgbotapi.NewMessage(chatID, "🧵 *Styling...* \n(Checking the weather and picking your outfits)")
	thinking.ParseMode = "Markdown"
	b.api.Send(thinking)

	if err := s.controller.GenerateForRange(ctx, dates); err != nil {
		log.Printf("Error generating outfits: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		b.send(chatID, fmt.Sprintf("❌ *Error generating outfits:*\n```\n%v\n```", safeErr))
		return
	}

	// Alert when the whole session failed: that smells like the backend
	// being down rather than a per-day hiccup.
	failed := 0
	for _, d := range dates {
		if entry, ok := s.controller.Temp(d); ok && entry.OutfitError != "" {
			failed++
		}
	}
	if failed == len(dates) {
		b.sendAdminAlert(fmt.Sprintf("⚠️ *Generation Alert*\nAll %d day(s) of a session failed. Backend may be degraded.", failed))
	}

	b.sendCurrentSlide(chatID, s)
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(b.cfg.AdminTelegramID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) handleLike(ctx context.Context, chatID int64, s *chatSession, date string) {
	outcome, err := s.controller.SaveDate(ctx, date)
	if err != nil {
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		b.send(chatID, fmt.Sprintf("❌ *Couldn't save:*\n```\n%v\n```", safeErr))
		return
	}
	if outcome == planner.SaveCompleted {
		b.send(chatID, "✅ *Trip saved!* See it anytime with /plan.")
		s.controller.DiscardSession()
		b.sendCalendar(chatID, s, "🗓 Your calendar.")
		return
	}
	b.sendCurrentSlide(chatID, s)
}

/* ---------- rendering ---------- */

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) sendCalendar(chatID int64, s *chatSession, header string) {
	cal := view.BuildCalendar(s.controller, s.year, s.month, time.Now().UTC())
	msg := tgbotapi.NewMessage(chatID, header)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = calendarKeyboard(cal)
	b.api.Send(msg)
}

// calendarKeyboard lays the month grid out as inline buttons, Monday
// first, one row per week. Disabled and blank cells are inert.
func calendarKeyboard(cal view.Calendar) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	nav := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("«", "cal|prev"),
		tgbotapi.NewInlineKeyboardButtonData(cal.Title, "cal|noop"),
		tgbotapi.NewInlineKeyboardButtonData("»", "cal|next"),
	}
	rows = append(rows, nav)

	var week []tgbotapi.InlineKeyboardButton
	for _, wd := range cal.Weekdays {
		week = append(week, tgbotapi.NewInlineKeyboardButtonData(wd, "cal|noop"))
	}
	rows = append(rows, week)

	week = nil
	for _, day := range cal.Days {
		switch {
		case day.Date == "" || day.Disabled:
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", "cal|noop"))
		default:
			label := fmt.Sprintf("%d", day.Number)
			if day.Saved {
				label = "👗" + label
			} else if day.Selected {
				label = "·" + label + "·"
			} else if day.Today {
				label = "[" + label + "]"
			}
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(label, "day|"+day.Date))
		}
		if len(week) == 7 {
			rows = append(rows, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, tgbotapi.NewInlineKeyboardButtonData(" ", "cal|noop"))
		}
		rows = append(rows, week)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendCurrentSlide(chatID int64, s *chatSession) {
	date := s.controller.CurrentSlideDate()
	entry, ok := s.controller.Temp(date)
	if !ok {
		b.send(chatID, "Nothing pending for this session. Use /plan to start over.")
		return
	}

	text, keyboard := formatSlide(entry, s.controller.SlideIndex(), len(s.controller.SliderDates()))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	b.api.Send(msg)
}

// formatSlide renders one session day as message text plus its action
// keyboard. Exactly one of the outfit, weather-picker, and error bodies
// is shown.
func formatSlide(entry *planner.Entry, index, total int) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 *%s* (%d/%d)\n📍 %s\n\n", entry.Date, index+1, total, entry.Location))

	var rows [][]tgbotapi.InlineKeyboardButton

	switch {
	case entry.MissingWeather:
		sb.WriteString("🤔 No forecast for this date yet. Pick the weather:")
		var picker []tgbotapi.InlineKeyboardButton
		for _, w := range outfit.WeatherOptions {
			picker = append(picker, tgbotapi.NewInlineKeyboardButtonData(
				outfit.WeatherIcon(w)+" "+w, "weather|"+entry.Date+"|"+w,
			))
		}
		rows = append(rows, picker)
	case entry.OutfitError != "":
		sb.WriteString(fmt.Sprintf("❌ %s", entry.OutfitError))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", "dislike|"+entry.Date),
		))
	default:
		sb.WriteString(fmt.Sprintf("%s %s\n%s %s\n\n", outfit.WeatherIcon(entry.Weather), entry.WeatherLabel(), outfit.OccasionIcon(entry.Occasion), entry.Occasion))
		items := append([]outfit.Item(nil), entry.TempOutfit...)
		outfit.SortByRole(items)
		for _, it := range items {
			icon := it.Icon
			if icon == "" {
				icon = outfit.RoleIcon(it.Role)
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", icon, it.Label()))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👍 Like", "like|"+entry.Date),
			tgbotapi.NewInlineKeyboardButtonData("👎 Dislike", "dislike|"+entry.Date),
		))
	}

	if total > 1 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("‹", "slide|prev"),
			tgbotapi.NewInlineKeyboardButtonData("›", "slide|next"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖ Discard session", "discard|"),
	))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendSavedDay(chatID int64, s *chatSession, date string) {
	entry, ok := s.controller.Saved(date)
	if !ok {
		b.send(chatID, "No saved plan for that date.")
		return
	}

	text := formatSavedDay(entry)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Regenerate", "regen|"+date),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "del|"+date),
		),
	)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboard
	b.api.Send(msg)
}

// formatSavedDay renders a persisted plan as message text.
func formatSavedDay(entry *planner.Entry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👗 *Saved plan for %s*\n📍 %s\n", entry.Date, entry.Location))
	sb.WriteString(fmt.Sprintf("%s %s\n%s %s\n\n", outfit.WeatherIcon(entry.Weather), entry.WeatherLabel(), outfit.OccasionIcon(entry.Occasion), entry.Occasion))

	items := append([]outfit.Item(nil), entry.Outfit...)
	outfit.SortByRole(items)
	for _, it := range items {
		icon := it.Icon
		if icon == "" {
			icon = outfit.RoleIcon(it.Role)
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", icon, it.Label()))
	}
	return sb.String()
}

/* ---------- admin ---------- */

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetEndpointUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DatabasePath))

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🛰 *Backend Calls (7d)*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, u := range usage {
		sb.WriteString(fmt.Sprintf("• `%s`: %d calls, %d failed, %dms avg\n", u.Endpoint, u.Calls, u.Failures, u.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DiskUsage))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}
