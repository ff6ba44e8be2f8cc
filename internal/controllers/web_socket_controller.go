package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"fsa_tracker/internal/device"
	"fsa_tracker/internal/geo"
	"fsa_tracker/internal/middleware"
	"fsa_tracker/internal/models"
	"fsa_tracker/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the token query parameter gates the connection
	},
}

// LocationData is a GPS ping pushed by a rep or driver.
type LocationData struct {
	RouteID   string    `json:"route_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // meters
	Speed     float64   `json:"speed"`    // m/s
	Bearing   float64   `json:"bearing"`  // degrees
	Altitude  float64   `json:"altitude"` // meters
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON accepts RFC3339 timestamps with or without a zone; a zone-less
// value is taken as UTC. A missing timestamp is left zero.
func (ld *LocationData) UnmarshalJSON(data []byte) error {
	type alias LocationData
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{alias: (*alias)(ld)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ts := strings.TrimSpace(aux.Timestamp)
	if ts == "" {
		ld.Timestamp = time.Time{}
		return nil
	}
	if !hasZone(ts) {
		ts += "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", aux.Timestamp, err)
	}
	ld.Timestamp = t
	return nil
}

func hasZone(ts string) bool {
	if strings.HasSuffix(ts, "Z") {
		return true
	}
	if len(ts) < 6 {
		return false
	}
	tail := ts[len(ts)-6:]
	return tail[0] == '+' || tail[0] == '-'
}

// LocationUpdate is what supervisors receive for each saved ping.
type LocationUpdate struct {
	UserID      uint      `json:"user_id"`
	SalesPerson string    `json:"sales_person,omitempty"`
	TeamID      uint      `json:"team_id"`
	RouteID     string    `json:"route_id,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Accuracy    float64   `json:"accuracy"`
	Speed       float64   `json:"speed"`
	Bearing     float64   `json:"bearing"`
	Altitude    float64   `json:"altitude"`
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"event_type"`
	IsMoving    bool      `json:"is_moving"`
	SequenceID  uint      `json:"sequence_id"`
}

// Ack answers a pushed ping.
type Ack struct {
	Status     string  `json:"status"`
	EventType  string  `json:"event_type"`
	Distance   float64 `json:"distance"`
	IsMoving   bool    `json:"is_moving"`
	SequenceID uint    `json:"sequence_id,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

// LocationHub fans location pings of reps and drivers out to the supervisors
// watching their team.
type LocationHub struct {
	locations repository.Locations
	users     repository.Users
	leases    *device.Leases
	now       func() time.Time

	mu          sync.Mutex
	teamClients map[uint]map[*client]bool
	broadcast   chan LocationUpdate
}

func NewLocationHub(locations repository.Locations, users repository.Users, leases *device.Leases) *LocationHub {
	return &LocationHub{
		locations:   locations,
		users:       users,
		leases:      leases,
		now:         time.Now,
		teamClients: make(map[uint]map[*client]bool),
		broadcast:   make(chan LocationUpdate, 100),
	}
}

// Run delivers broadcasts until ctx is done.
func (h *LocationHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *LocationHub) deliver(msg LocationUpdate) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.teamClients[msg.TeamID]))
	for cl := range h.teamClients[msg.TeamID] {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		if err := cl.send(msg); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"team_id":  msg.TeamID,
				"conn_ptr": fmt.Sprintf("%p", cl.conn),
			}).Warn("Failed to send location update, unregistering watcher.")
			h.unregister(msg.TeamID, cl)
		}
	}
}

func (h *LocationHub) register(teamID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.teamClients[teamID]; !ok {
		h.teamClients[teamID] = make(map[*client]bool)
	}
	h.teamClients[teamID][cl] = true
	logrus.WithFields(logrus.Fields{
		"team_id":  teamID,
		"conn_ptr": fmt.Sprintf("%p", cl.conn),
	}).Info("Watcher registered with LocationHub.")
}

func (h *LocationHub) unregister(teamID uint, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.teamClients[teamID]; ok {
		delete(clients, cl)
		if len(clients) == 0 {
			delete(h.teamClients, teamID)
		}
	}
}

// Watching reports how many supervisors follow teamID.
func (h *LocationHub) Watching(teamID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.teamClients[teamID])
}

func (h *LocationHub) publish(u LocationUpdate) {
	select {
	case h.broadcast <- u:
	default:
		logrus.WithField("team_id", u.TeamID).Warn("Location broadcast channel full, dropping update.")
	}
}

// shouldSaveLocation decides whether a ping is worth persisting.
func shouldSaveLocation(distance, speed, timeDiff float64, last *models.LocationHistory, now time.Time) (bool, string) {
	const minDistanceForSave = 5.0
	const minTimeDiffForSave = 10.0
	const minSpeedForMoving = 0.5
	const maxSpeedForStopped = 1.0
	const periodicSaveInterval = 60 * time.Second

	if last == nil {
		return true, "initial"
	}
	if distance >= minDistanceForSave {
		return true, "move"
	}
	if last.IsMoving && speed < maxSpeedForStopped && timeDiff >= minTimeDiffForSave {
		return true, "stopped"
	}
	if !last.IsMoving && speed >= minSpeedForMoving && timeDiff >= minTimeDiffForSave {
		return true, "started"
	}
	if now.Sub(last.Timestamp) >= periodicSaveInterval {
		return true, "periodic"
	}
	return false, "insignificant"
}

// ingest filters, saves and publishes one ping of claims' user.
func (h *LocationHub) ingest(ctx context.Context, claims *middleware.Claims, data LocationData) (Ack, error) {
	if data.Timestamp.IsZero() {
		data.Timestamp = h.now().UTC()
	}
	speed := data.Speed
	if speed < 0 {
		speed = 0
	}

	last, err := h.locations.LastKnown(ctx, claims.UserID)
	if err != nil {
		return Ack{}, fmt.Errorf("last location: %w", err)
	}

	var distance, bearing, timeDiff float64
	bearing = data.Bearing
	if last != nil {
		distance = geo.Distance(last.Latitude, last.Longitude, data.Latitude, data.Longitude)
		timeDiff = data.Timestamp.Sub(last.Timestamp).Seconds()
		if distance > 0 {
			bearing = geo.Bearing(last.Latitude, last.Longitude, data.Latitude, data.Longitude)
		}
	}

	save, eventType := shouldSaveLocation(distance, speed, timeDiff, last, h.now())
	if !save {
		return Ack{Status: "ignored", EventType: eventType, Distance: distance}, nil
	}

	rec := models.LocationHistory{
		UserID:           claims.UserID,
		RouteID:          data.RouteID,
		Latitude:         data.Latitude,
		Longitude:        data.Longitude,
		Accuracy:         data.Accuracy,
		Speed:            speed,
		Bearing:          bearing,
		Altitude:         data.Altitude,
		IsMoving:         speed > 0.5,
		DistanceFromLast: distance,
		Timestamp:        data.Timestamp,
		EventType:        eventType,
	}
	if err := h.locations.Save(ctx, &rec); err != nil {
		return Ack{}, fmt.Errorf("save location: %w", err)
	}

	if claims.TeamID != 0 {
		h.publish(LocationUpdate{
			UserID:      claims.UserID,
			SalesPerson: claims.SalesPerson,
			TeamID:      claims.TeamID,
			RouteID:     rec.RouteID,
			Latitude:    rec.Latitude,
			Longitude:   rec.Longitude,
			Accuracy:    rec.Accuracy,
			Speed:       rec.Speed,
			Bearing:     rec.Bearing,
			Altitude:    rec.Altitude,
			Timestamp:   rec.Timestamp,
			EventType:   eventType,
			IsMoving:    rec.IsMoving,
			SequenceID:  rec.ID,
		})
	}
	return Ack{Status: "saved", EventType: eventType, Distance: distance, IsMoving: rec.IsMoving, SequenceID: rec.ID}, nil
}

var errForbiddenRole = errors.New("unauthorized role for location feed")

// watchedTeam resolves the team a supervisor follows.
func (h *LocationHub) watchedTeam(ctx context.Context, claims *middleware.Claims) (uint, error) {
	team, err := h.users.SupervisedTeam(ctx, claims.UserID)
	if err == nil {
		return team.ID, nil
	}
	if errors.Is(err, repository.ErrNotFound) && claims.TeamID != 0 {
		return claims.TeamID, nil
	}
	return 0, err
}

// HandleLocationWebSocket serves /ws/location?token=... Reps and drivers push
// pings; supervisors receive their team's updates. Each connection holds a
// location_feed lease for as long as it is open.
func (h *LocationHub) HandleLocationWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}
	claims, err := middleware.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var teamID uint
	switch claims.Role {
	case models.RoleRep, models.RoleDriver:
	case models.RoleSupervisor:
		if teamID, err = h.watchedTeam(c.Request.Context(), claims); err != nil {
			respondError(c, err)
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": errForbiddenRole.Error()})
		return
	}

	lease, err := h.leases.Acquire(device.KindLocationFeed, device.UserOwner(claims.UserID))
	if err != nil {
		respondError(c, err)
		return
	}
	defer lease.Release()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	cl := &client{conn: conn}
	if claims.Role == models.RoleSupervisor {
		h.watch(cl, claims, teamID)
		return
	}
	h.track(c.Request.Context(), cl, claims)
}

// track reads pings until the connection closes.
func (h *LocationHub) track(ctx context.Context, cl *client, claims *middleware.Claims) {
	log := logrus.WithFields(logrus.Fields{
		"user_id":  claims.UserID,
		"team_id":  claims.TeamID,
		"conn_ptr": fmt.Sprintf("%p", cl.conn),
	})
	log.Info("Location feed opened.")
	defer log.Info("Location feed closed.")

	for {
		messageType, p, err := cl.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("Error reading location message.")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var data LocationData
		if err := json.Unmarshal(p, &data); err != nil {
			log.WithError(err).Debug("Rejected location payload.")
			_ = cl.send(gin.H{"error": "Invalid location data format. Check timestamp format."})
			continue
		}
		ack, err := h.ingest(ctx, claims, data)
		if err != nil {
			log.WithError(err).Error("Failed to store location.")
			_ = cl.send(gin.H{"error": "Failed to save location."})
			continue
		}
		if err := cl.send(ack); err != nil {
			return
		}
	}
}

// watch keeps a supervisor registered until they disconnect.
func (h *LocationHub) watch(cl *client, claims *middleware.Claims, teamID uint) {
	h.register(teamID, cl)
	defer h.unregister(teamID, cl)

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("user_id", claims.UserID).Warn("Error reading from watcher.")
			}
			return
		}
	}
}
