package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/message/peer"
	"github.com/gotd/td/tg"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
)

// CodeSource — откуда брать одноразовый код при логине.
type CodeSource interface {
	Await(ctx context.Context) (string, error)
	Drain() bool
}

type Status interface {
	SetReady(v bool)
	SetChannelConnected(v bool)
}

type Settings struct {
	APIID        int
	APIHash      string
	Phone        string
	SessionFile  string
	SignalSender string
	CodeTimeout  time.Duration
}

// Listener — пользовательский MTProto-клиент, пересылает сообщения
// от бота-источника сигналов в очередь конвейера.
type Listener struct {
	settings Settings
	out      chan<- models.RawMessage
	codes    CodeSource
	status   Status

	dispatcher tg.UpdateDispatcher
	senderID   atomic.Int64
}

func NewListener(cfg *config.Config, out chan<- models.RawMessage, codes CodeSource, status Status) *Listener {
	return newListener(Settings{
		APIID:        cfg.Telegram.APIID,
		APIHash:      cfg.Telegram.APIHash,
		Phone:        cfg.Telegram.Phone,
		SessionFile:  cfg.Telegram.SessionFile,
		SignalSender: cfg.Telegram.SignalSender,
		CodeTimeout:  cfg.Telegram.CodeTimeout,
	}, out, codes, status)
}

func newListener(s Settings, out chan<- models.RawMessage, codes CodeSource, status Status) *Listener {
	s.SignalSender = strings.TrimPrefix(s.SignalSender, "@")
	if s.CodeTimeout <= 0 {
		s.CodeTimeout = 5 * time.Minute
	}

	l := &Listener{
		settings:   s,
		out:        out,
		codes:      codes,
		status:     status,
		dispatcher: tg.NewUpdateDispatcher(),
	}
	l.dispatcher.OnNewMessage(l.onNewMessage)
	return l
}

// Run — одна сессия: подключение, логин при необходимости, приём до отмены ctx
// или обрыва соединения.
func (l *Listener) Run(ctx context.Context) error {
	client := telegram.NewClient(l.settings.APIID, l.settings.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: l.settings.SessionFile},
		UpdateHandler:  l,
		Logger:         logger.L().Named("mtproto"),
	})

	defer l.markDown()

	return client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(
			auth.CodeOnly(l.settings.Phone, auth.CodeAuthenticatorFunc(l.awaitCode)),
			auth.SendCodeOptions{},
		)
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("telegram auth: %w", err)
		}

		l.resolveSender(ctx, client.API())

		l.status.SetReady(true)
		l.status.SetChannelConnected(true)
		logger.Info("telegram connected, listening for signals from @%s", l.settings.SignalSender)

		<-ctx.Done()
		return ctx.Err()
	})
}

// markDown: сессии нет — не готовы, пока следующая не авторизуется.
func (l *Listener) markDown() {
	l.status.SetReady(false)
	l.status.SetChannelConnected(false)
}

func (l *Listener) awaitCode(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
	// код, присланный до запроса, к этому логину не относится
	if l.codes.Drain() {
		logger.Warn("dropped stale otp submitted before login asked for it")
	}
	logger.Warn("telegram login code sent to %s, submit it via POST /otp", l.settings.Phone)

	ctx, cancel := context.WithTimeout(ctx, l.settings.CodeTimeout)
	defer cancel()

	code, err := l.codes.Await(ctx)
	if err != nil {
		return "", fmt.Errorf("wait otp: %w", err)
	}
	return code, nil
}

// resolveSender запоминает id бота: короткие апдейты приходят без username.
func (l *Listener) resolveSender(ctx context.Context, api *tg.Client) {
	p, err := peer.DefaultResolver(api).ResolveDomain(ctx, l.settings.SignalSender)
	if err != nil {
		logger.Warn("resolve @%s: %v, matching by username only", l.settings.SignalSender, err)
		return
	}
	if u, ok := p.(*tg.InputPeerUser); ok {
		l.senderID.Store(u.UserID)
	}
}

// Handle реализует telegram.UpdateHandler.
func (l *Listener) Handle(ctx context.Context, u tg.UpdatesClass) error {
	if short, ok := u.(*tg.UpdateShortMessage); ok {
		if !short.Out && l.isSender(short.UserID, "") {
			return l.forward(ctx, short.ID, short.Message, short.Date)
		}
		return nil
	}
	return l.dispatcher.Handle(ctx, u)
}

func (l *Listener) onNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
	msg, ok := u.Message.(*tg.Message)
	if !ok || msg.Out {
		return nil
	}

	uid := fromUser(msg)
	var username string
	if user, ok := e.Users[uid]; ok && user != nil {
		username = user.Username
	}
	if !l.isSender(uid, username) {
		return nil
	}
	return l.forward(ctx, msg.ID, msg.Message, msg.Date)
}

func (l *Listener) isSender(uid int64, username string) bool {
	if uid == 0 {
		return false
	}
	if username != "" && strings.EqualFold(username, l.settings.SignalSender) {
		l.senderID.Store(uid)
		return true
	}
	id := l.senderID.Load()
	return id != 0 && id == uid
}

// forward блокируется на полной очереди: порядок сигналов важнее скорости.
func (l *Listener) forward(ctx context.Context, id int, text string, date int) error {
	msg := models.RawMessage{
		ID:         id,
		Sender:     l.settings.SignalSender,
		Text:       text,
		ReceivedAt: time.Unix(int64(date), 0),
	}
	logger.Info("signal message #%d received", id)

	select {
	case l.out <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fromUser(msg *tg.Message) int64 {
	if from, ok := msg.GetFromID(); ok {
		if p, ok := from.(*tg.PeerUser); ok {
			return p.UserID
		}
		return 0
	}
	// в личке from_id пустой, отправитель — сам peer
	if p, ok := msg.PeerID.(*tg.PeerUser); ok {
		return p.UserID
	}
	return 0
}
