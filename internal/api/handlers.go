package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trustieee/timey-sub000/internal/config"
	"github.com/trustieee/timey-sub000/internal/dates"
	"github.com/trustieee/timey-sub000/internal/engine"
	"github.com/trustieee/timey-sub000/internal/session"
)

type profileResponse struct {
	UserID  string             `json:"userId"`
	Today   string             `json:"today"`
	Profile engine.Profile     `json:"profile"`
	Stats   engine.PlayerStats `json:"stats"`
}

type statsResponse struct {
	engine.PlayerStats
	Completion engine.Completion `json:"completion"`
	Tokens     int               `json:"rewardTokens"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Changed       bool               `json:"changed"`
	OldStatus     engine.ChoreStatus `json:"oldStatus"`
	NewStatus     engine.ChoreStatus `json:"newStatus"`
	XPDelta       int                `json:"xpDelta"`
	LevelUp       bool               `json:"levelUp"`
	TokensGranted int                `json:"tokensGranted"`
	Stats         engine.PlayerStats `json:"stats"`
}

type choreInput struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	DaysOfWeek []int  `json:"daysOfWeek"`
}

type rewardRequest struct {
	Type  string   `json:"type"`
	Value *float64 `json:"value"`
}

type grantRequest struct {
	Count int `json:"count"`
}

type finalizeRequest struct {
	Date string `json:"date"`
}

type playResponse struct {
	Open             bool       `json:"open"`
	UsedMinutes      int        `json:"usedMinutes"`
	AllowedMinutes   int        `json:"allowedMinutes"`
	RemainingMinutes int        `json:"remainingMinutes"`
	CooldownMinutes  int        `json:"cooldownMinutes"`
	CooldownUntil    *time.Time `json:"cooldownUntil,omitempty"`
	CanStart         bool       `json:"canStart"`
	Reason           string     `json:"reason,omitempty"`
}

func toPlayResponse(st engine.PlayState) playResponse {
	out := playResponse{
		Open:             st.Open,
		UsedMinutes:      int(st.Used / time.Minute),
		AllowedMinutes:   int(st.Allowed / time.Minute),
		RemainingMinutes: int(st.Remaining / time.Minute),
		CooldownMinutes:  int(st.Cooldown / time.Minute),
		CanStart:         st.CanStart,
		Reason:           st.Reason,
	}
	if !st.CooldownUntil.IsZero() {
		until := st.CooldownUntil
		out.CooldownUntil = &until
	}
	return out
}

func userIDParam(c *fiber.Ctx) (string, error) {
	userID := strings.TrimSpace(c.Params("userId"))
	if userID == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "userId is required")
	}
	return userID, nil
}

// viewSession reads the caller's stored profile without writing it.
func (s *Server) viewSession(c *fiber.Ctx) (*session.Session, engine.Profile, error) {
	userID, err := userIDParam(c)
	if err != nil {
		return nil, engine.Profile{}, err
	}
	return s.registry.View(c.UserContext(), userID)
}

// session returns the caller's session for a change; the change itself
// creates the profile when none is stored.
func (s *Server) session(c *fiber.Ctx) (*session.Session, error) {
	userID, err := userIDParam(c)
	if err != nil {
		return nil, err
	}
	return s.registry.Get(userID), nil
}

func (s *Server) profileBody(sess *session.Session, p engine.Profile) profileResponse {
	eng := sess.Engine()
	return profileResponse{
		UserID:  sess.UserID(),
		Today:   eng.Today(),
		Profile: p,
		Stats:   eng.CalculatePlayerStats(p),
	}
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.registry.Users(c.UserContext())
	if err != nil {
		return err
	}
	if users == nil {
		users = []string{}
	}
	return c.JSON(fiber.Map{"users": users})
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	sess, p, err := s.viewSession(c)
	if err != nil {
		return err
	}
	return c.JSON(s.profileBody(sess, p))
}

// createProfile stores a fresh profile for a new user, or returns the
// existing one.
func (s *Server) createProfile(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	p, err := sess.Load(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s.profileBody(sess, p))
}

func (s *Server) getStats(c *fiber.Ctx) error {
	sess, p, err := s.viewSession(c)
	if err != nil {
		return err
	}
	return c.JSON(statsResponse{
		PlayerStats: sess.Engine().CalculatePlayerStats(p),
		Completion:  engine.HistoryCompletion(p),
		Tokens:      p.Rewards.Available,
	})
}

func (s *Server) getHistory(c *fiber.Ctx) error {
	sess, p, err := s.viewSession(c)
	if err != nil {
		return err
	}
	days := engine.DaySummaries(p, sess.Engine().Now())
	if limit := c.QueryInt("limit", 0); limit > 0 && limit < len(days) {
		days = days[:limit]
	}
	return c.JSON(fiber.Map{"days": days})
}

func (s *Server) getDay(c *fiber.Ctx) error {
	date := c.Params("date")
	if _, err := dates.ParseDay(date); err != nil {
		return fail(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD", err)
	}
	_, p, err := s.viewSession(c)
	if err != nil {
		return err
	}
	day, ok := p.History[date]
	if !ok {
		return fail(c, fiber.StatusNotFound, "no record for "+date, nil)
	}
	return c.JSON(day)
}

func (s *Server) putChores(c *fiber.Ctx) error {
	var in []choreInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid chore list", err)
	}
	chores := make([]config.Chore, 0, len(in))
	for _, ch := range in {
		chores = append(chores, config.Chore{ID: ch.ID, Text: ch.Text, DaysOfWeek: ch.DaysOfWeek})
	}
	defs, err := config.ToDefinitions(chores)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid chore list", err)
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	p, err := sess.SetChores(c.UserContext(), defs)
	if err != nil {
		return err
	}
	return c.JSON(s.profileBody(sess, p))
}

func (s *Server) postChoreStatus(c *fiber.Ctx) error {
	choreID, err := c.ParamsInt("choreId")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "choreId must be a number", err)
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body", err)
	}
	status, err := engine.ParseChoreStatus(req.Status)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid status", err)
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	change, err := sess.SetChoreStatus(c.UserContext(), choreID, status)
	if err != nil {
		return err
	}
	return c.JSON(statusResponse{
		Changed:       change.Changed,
		OldStatus:     change.OldStatus,
		NewStatus:     change.NewStatus,
		XPDelta:       change.XPDelta,
		LevelUp:       change.LevelUp,
		TokensGranted: change.TokensGranted,
		Stats:         change.After,
	})
}

func (s *Server) resetToday(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	p, err := sess.ResetToday(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s.profileBody(sess, p))
}

func (s *Server) useReward(c *fiber.Ctx) error {
	var req rewardRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body", err)
	}
	kind, err := engine.ParseRewardKind(req.Type)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid reward type", err)
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	value := engine.DefaultRewardValue(kind)
	if req.Value != nil {
		value = *req.Value
	}
	p, err := sess.UseReward(c.UserContext(), kind, value)
	if err != nil {
		return err
	}
	return c.JSON(s.profileBody(sess, p))
}

func (s *Server) grantRewards(c *fiber.Ctx) error {
	var req grantRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body", err)
	}
	if req.Count <= 0 {
		return fail(c, fiber.StatusBadRequest, "count must be positive", nil)
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	p, err := sess.GrantRewards(c.UserContext(), req.Count)
	if err != nil {
		return err
	}
	return c.JSON(s.profileBody(sess, p))
}

// finalize closes the given day, or every day before today without a body.
func (s *Server) finalize(c *fiber.Ctx) error {
	var req finalizeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid body", err)
		}
	}
	if req.Date != "" {
		if _, err := dates.ParseDay(req.Date); err != nil {
			return fail(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD", err)
		}
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	p, err := sess.Finalize(c.UserContext(), req.Date)
	if err != nil {
		return err
	}
	return c.JSON(s.profileBody(sess, p))
}

func (s *Server) getPlay(c *fiber.Ctx) error {
	sess, p, err := s.viewSession(c)
	if err != nil {
		return err
	}
	return c.JSON(toPlayResponse(sess.Engine().PlayStatus(p)))
}
