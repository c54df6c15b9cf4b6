// Package telegram exposes the solver over a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jee-solver/internal/engine"
	"jee-solver/internal/solve"
	"jee-solver/internal/util"
)

const solveTimeout = 180 * time.Second

// Manager remembers the engine choice per chat, like the web session does
// per browser.
type Manager struct {
	engines *engine.Engines
	prefs   map[int64]string
}

func NewManager(engines *engine.Engines) *Manager {
	return &Manager{engines: engines, prefs: map[int64]string{}}
}

func (m *Manager) Get(chatID int64) (engine.Engine, error) {
	return m.engines.Get(m.prefs[chatID])
}

func (m *Manager) Set(chatID int64, name string) error {
	if _, err := m.engines.Get(name); err != nil {
		return err
	}
	m.prefs[chatID] = name
	return nil
}

type Router struct {
	Bot   *tgbotapi.BotAPI
	Mgr   *Manager
	Token string
	Log   *slog.Logger

	httpc *http.Client
}

func NewRouter(bot *tgbotapi.BotAPI, mgr *Manager, token string, log *slog.Logger) *Router {
	return &Router{
		Bot:   bot,
		Mgr:   mgr,
		Token: token,
		Log:   log,
		httpc: &http.Client{Timeout: 60 * time.Second},
	}
}

// HandleUpdate is called for every update from the polling loop. Updates
// are handled one at a time; the bot has no shared mutable state beyond
// the per-chat engine preference.
func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.handlePhoto(cid, upd.Message.Photo)
		return
	}

	if q := strings.TrimSpace(upd.Message.Text); q != "" {
		r.handleQuestion(cid, q)
	}
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send me a JEE Mains math question as text, or a photo of one.\nCommands: /health, /engine")
	case "health":
		r.send(cid, "OK")
	case "engine":
		args := strings.Fields(strings.TrimSpace(upd.Message.CommandArguments()))
		if len(args) == 0 {
			eng, err := r.Mgr.Get(cid)
			if err != nil {
				r.send(cid, "No engine configured.")
				return
			}
			r.send(cid, "Current engine: "+eng.Name()+" ("+eng.GetModel()+")\nUsage: /engine gemini | /engine gpt")
			return
		}
		name := strings.ToLower(args[0])
		if err := r.Mgr.Set(cid, name); err != nil {
			r.send(cid, "Cannot switch engine: "+err.Error())
			return
		}
		eng, _ := r.Mgr.Get(cid)
		r.send(cid, "Engine set to "+eng.Name()+" ("+eng.GetModel()+").")
	default:
		r.send(cid, "Unknown command. Try /start.")
	}
}

func (r *Router) handleQuestion(cid int64, question string) {
	eng, err := r.Mgr.Get(cid)
	if err != nil {
		r.send(cid, "No model engine configured: "+err.Error())
		return
	}
	r.send(cid, "Working on it…")

	ctx, cancel := context.WithTimeout(context.Background(), solveTimeout)
	defer cancel()

	sol, _, err := solve.Solve(ctx, eng, question)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	r.send(cid, FormatSolution(sol))
}

func (r *Router) handlePhoto(cid int64, photos []tgbotapi.PhotoSize) {
	eng, err := r.Mgr.Get(cid)
	if err != nil {
		r.send(cid, "No model engine configured: "+err.Error())
		return
	}
	r.send(cid, "Got the photo, reading the question…")

	// Telegram orders sizes ascending; take the largest.
	ph := photos[len(photos)-1]
	tf, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.send(cid, "Could not fetch the photo: "+err.Error())
		return
	}
	img, err := r.download(fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Token, tf.FilePath))
	if err != nil {
		r.send(cid, "Could not download the photo: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), solveTimeout)
	defer cancel()

	sol, _, question, err := solve.SolveImage(ctx, eng, img, util.SniffMimeHTTP(img))
	if err != nil {
		r.sendError(cid, err)
		return
	}
	r.send(cid, "Question: "+question+"\n\n"+FormatSolution(sol))
}

// FormatSolution renders a solution record as plain chat text.
func FormatSolution(sol *solve.Solution) string {
	var b strings.Builder
	b.WriteString(sol.Question)
	b.WriteString("\n\n")
	for i, step := range sol.SolutionSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	b.WriteString("\nFinal answer: ")
	b.WriteString(sol.FinalAnswer)
	fmt.Fprintf(&b, "\n(%s, %s)", sol.DifficultyLevel, sol.Topic)
	return b.String()
}

func (r *Router) sendError(cid int64, err error) {
	var invErr *solve.ErrInvalidResponse
	if errors.As(err, &invErr) {
		r.Log.Error("model returned non-conforming payload", "error", err)
		r.send(cid, "The AI returned an unusable answer. Please try again.")
		return
	}
	r.Log.Error("solve failed", "error", err)
	r.send(cid, "Could not solve that right now. Please try again.")
}

func (r *Router) send(chatID int64, text string) {
	// Telegram caps messages at 4096 chars.
	if len(text) > 3900 {
		text = text[:3900] + "…"
	}
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.Log.Warn("send message", "chat_id", chatID, "error", err)
	}
}

func (r *Router) download(url string) ([]byte, error) {
	resp, err := r.httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
