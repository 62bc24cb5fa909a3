// Package console - HTTP-поверхность консоли оператора: список инцидентов,
// выбранный инцидент с журналом, тактическая карта, SITREP и уведомления.
package console

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/fire_command_center/internal/ai"
	"github.com/shenikar/fire_command_center/internal/client"
	"github.com/shenikar/fire_command_center/internal/fleet"
	"github.com/shenikar/fire_command_center/internal/lifecycle"
	"github.com/shenikar/fire_command_center/internal/models"
	"github.com/shenikar/fire_command_center/internal/notify"
	"github.com/shenikar/fire_command_center/internal/session"
	"github.com/shenikar/fire_command_center/internal/store"
	"github.com/shenikar/fire_command_center/internal/tacmap"
)

const (
	msgInvalidCredentials = "Credenciais inválidas"
	msgConnectionFailed   = "Erro de conexão com o servidor."
	msgNoSelection        = "Nenhuma ocorrência selecionada."
	msgStatsFailed        = "Falha ao carregar estatísticas."
)

// API - вызовы Incident API, которые консоль делает мимо хранилища
type API interface {
	GetStats(ctx context.Context) (models.Stats, error)
	Login(ctx context.Context, username, password string) (models.User, error)
}

// Deps - зависимости консоли
type Deps struct {
	Store    *store.Store
	API      API
	Session  *session.Manager
	Fleet    *fleet.Registry
	Renderer *tacmap.Renderer
	Reporter *ai.Reporter
	Notifier *notify.Center
	Logger   *logrus.Logger
}

type Handler struct {
	store    *store.Store
	api      API
	session  *session.Manager
	fleet    *fleet.Registry
	renderer *tacmap.Renderer
	reporter *ai.Reporter
	notifier *notify.Center
	logger   *logrus.Logger
	validate *validator.Validate

	done      chan struct{}
	closeOnce sync.Once
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		store:    d.Store,
		api:      d.API,
		session:  d.Session,
		fleet:    d.Fleet,
		renderer: d.Renderer,
		reporter: d.Reporter,
		notifier: d.Notifier,
		logger:   d.Logger,
		validate: validator.New(),
		done:     make(chan struct{}),
	}
}

// Close завершает открытые потоки /events. Регистрируется через
// http.Server.RegisterOnShutdown, иначе Shutdown ждет их до таймаута.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *Handler) log(method string) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"handler": "console",
		"method":  method,
	})
}

func (h *Handler) bind(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// storeError переводит ошибку хранилища в HTTP-ответ.
// Уведомление оператору хранилище уже опубликовало.
func storeError(c *gin.Context, err error) {
	var reqErr *client.RequestError
	switch {
	case errors.Is(err, store.ErrNotFound), client.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
	case errors.Is(err, store.ErrEmptyNote):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &reqErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requireSession пропускает запрос только при активной сессии оператора.
// Сессия общая для процесса, cookie и токены не проверяются.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.session.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func (h *Handler) login(c *gin.Context) {
	log := h.log("login")

	var input loginRequest
	if !h.bind(c, log, &input) {
		return
	}

	user, err := h.api.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		var reqErr *client.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode >= 400 && reqErr.StatusCode < 500 {
			msg := reqErr.Message
			if msg == "" {
				msg = msgInvalidCredentials
			}
			log.WithField("status", reqErr.StatusCode).Warn("Login rejected")
			c.JSON(reqErr.StatusCode, gin.H{"error": msg})
			return
		}
		log.WithError(err).Error("Login request failed")
		h.notifier.Error(msgConnectionFailed)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgConnectionFailed})
		return
	}

	if err := h.session.Login(c.Request.Context(), user); err != nil {
		log.WithError(err).Error("Failed to persist session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	log.WithField("user_id", user.ID).Info("Operator logged in")
	c.JSON(http.StatusOK, user)
}

func (h *Handler) logout(c *gin.Context) {
	log := h.log("logout")
	if err := h.session.Teardown(c.Request.Context()); err != nil {
		log.WithError(err).Error("Failed to clear session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	h.store.ClearSelection()
	log.Info("Operator logged out")
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	user, _ := h.session.Current()
	c.JSON(http.StatusOK, user)
}

func (h *Handler) listIncidents(c *gin.Context) {
	mode, err := lifecycle.ParseFilterMode(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.store.Filtered(mode, c.Query("q")))
}

func (h *Handler) createIncident(c *gin.Context) {
	log := h.log("createIncident")

	var input createIncidentRequest
	if !h.bind(c, log, &input) {
		return
	}

	inc, err := h.store.Create(c.Request.Context(), input.draft())
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inc)
}

func (h *Handler) deleteIncident(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) selectIncident(c *gin.Context) {
	inc, err := h.store.Select(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, selectionResponse{Incident: inc, NoteDraft: h.store.NoteDraft()})
}

func (h *Handler) clearSelection(c *gin.Context) {
	h.store.ClearSelection()
	c.Status(http.StatusNoContent)
}

// selected достает выбранный инцидент или отвечает 409
func (h *Handler) selected(c *gin.Context) (models.Incident, bool) {
	inc, ok := h.store.Selected()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": msgNoSelection})
	}
	return inc, ok
}

func (h *Handler) getSelection(c *gin.Context) {
	inc, ok := h.selected(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, selectionResponse{Incident: inc, NoteDraft: h.store.NoteDraft()})
}

func (h *Handler) setDraft(c *gin.Context) {
	var input draftRequest
	if !h.bind(c, h.log("setDraft"), &input) {
		return
	}
	h.store.SetNoteDraft(input.Text)
	c.Status(http.StatusNoContent)
}

func (h *Handler) addNote(c *gin.Context) {
	log := h.log("addNote")

	inc, ok := h.selected(c)
	if !ok {
		return
	}
	var input noteRequest
	if !h.bind(c, log, &input) {
		return
	}
	content := input.Content
	if content == "" {
		content = h.store.NoteDraft()
	}

	user, _ := h.session.Current()
	note, err := h.store.AppendNote(c.Request.Context(), inc.ID, user.Name, content)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *Handler) dispatch(c *gin.Context) {
	inc, ok := h.selected(c)
	if !ok {
		return
	}
	updated, err := h.store.Dispatch(inc.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) updateStatus(c *gin.Context) {
	log := h.log("updateStatus")
	inc, ok := h.selected(c)
	if !ok {
		return
	}
	var req statusRequest
	if !h.bind(c, log, &req) {
		return
	}
	if req.Status == models.StatusUnset {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	updated, err := h.store.UpdateStatus(c.Request.Context(), inc.ID, req.Status)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) suggest(c *gin.Context) {
	inc, ok := h.selected(c)
	if !ok {
		return
	}
	text := h.reporter.SuggestResources(c.Request.Context(), inc, h.fleet.Available())
	c.JSON(http.StatusOK, textResponse{Text: text})
}

func (h *Handler) share(c *gin.Context) {
	inc, ok := h.selected(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shareResponse{Text: lifecycle.ShareText(inc), URL: lifecycle.ShareURL(inc)})
}

func (h *Handler) scene() tacmap.Scene {
	scene := h.renderer.Render(h.fleet.Vehicles(), h.store.Incidents())
	if sel, ok := h.store.Selected(); ok {
		scene.SelectedID = sel.ID
	}
	return scene
}

func (h *Handler) mapSVG(c *gin.Context) {
	c.Header("Content-Type", "image/svg+xml")
	c.Status(http.StatusOK)
	if err := h.scene().WriteSVG(c.Writer); err != nil {
		h.log("mapSVG").WithError(err).Error("Failed to write map")
	}
}

// mapClick выбирает инцидент под точкой и возвращает запись под курсором.
// Обработчики клика привязываются к копии рендерера на время запроса.
func (h *Handler) mapClick(c *gin.Context) {
	log := h.log("mapClick")

	var input mapClickRequest
	if !h.bind(c, log, &input) {
		return
	}

	var resp mapClickResponse
	r := *h.renderer
	r.OnVehicleClick = func(v models.Vehicle) {
		resp = mapClickResponse{
			Kind:           tacmap.KindVehicle.String(),
			Vehicle:        &v,
			DistanceMeters: r.Projector.DistanceMeters(v.Location),
		}
	}
	r.OnIncidentClick = func(inc models.Incident) {
		if sel, err := h.store.Select(inc.ID); err == nil {
			inc = sel
		}
		resp = mapClickResponse{
			Kind:           tacmap.KindIncident.String(),
			Incident:       &inc,
			DistanceMeters: r.Projector.DistanceMeters(inc.Location),
		}
	}

	if !r.Click(h.scene(), r2.Point{X: *input.X, Y: *input.Y}) {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing at this point"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) vehicles(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.Vehicles())
}

func (h *Handler) vehicle(c *gin.Context) {
	v, ok := h.fleet.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// personnel отдает дежурную смену страницами по fleet.DefaultPageSize.
// Номер страницы ?page= считается с 1.
func (h *Handler) personnel(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a number"})
		return
	}
	p, err := h.fleet.PersonnelPage(page, fleet.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) stats(c *gin.Context) {
	log := h.log("stats")
	stats, err := h.api.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load stats")
		h.notifier.Error(msgStatsFailed)
		c.JSON(http.StatusBadGateway, gin.H{"error": msgStatsFailed})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) sitrep(c *gin.Context) {
	text := h.reporter.SituationReport(c.Request.Context(), h.store.Incidents(), h.fleet.Vehicles())
	c.JSON(http.StatusOK, sitrepResponse{Text: text, Simulated: !h.reporter.Enabled()})
}

func (h *Handler) notifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.notifier.Active())
}

// events транслирует уведомления через server-sent events, пока клиент подключен
func (h *Handler) events(c *gin.Context) {
	ch, cancel := h.notifier.Subscribe()
	defer cancel()

	// Заголовки уходят сразу, не дожидаясь первого уведомления
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	_, _ = io.WriteString(c.Writer, ": connected\n\n")
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-h.done:
			return false
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notification", n)
			return true
		}
	})
}
