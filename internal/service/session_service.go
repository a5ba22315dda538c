package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-sessions/internal/models"
	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

type sessionRepository interface {
	Save(ctx context.Context, session *models.Session, courseID int64) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.SessionRecord, error)
	FindAllByCourseID(ctx context.Context, courseID int64) ([]models.SessionRecord, error)
	UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) error
}

type studentRepository interface {
	FindAllBySessionID(ctx context.Context, sessionID int64) ([]models.Student, error)
	SaveAll(ctx context.Context, students []models.Student, sessionID int64) error
}

type imageRepository interface {
	FindAllBySessionID(ctx context.Context, sessionID int64) ([]models.Image, error)
	SaveAll(ctx context.Context, images []models.Image, sessionID int64) error
}

type lecturerRepository interface {
	FindBySessionID(ctx context.Context, sessionID int64) (*models.Lecturer, error)
	Save(ctx context.Context, lecturer *models.Lecturer, sessionID int64) (int64, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// SessionRepositories groups the stores a session is assembled from.
type SessionRepositories struct {
	Sessions  sessionRepository
	Students  studentRepository
	Images    imageRepository
	Lecturers lecturerRepository
	Courses   courseReader
}

// ImageRequest describes one cover image of a new session.
type ImageRequest struct {
	SizeKB int64  `json:"size_kb" validate:"required,gt=0"`
	Type   string `json:"type" validate:"required"`
	Width  int64  `json:"width" validate:"required,gt=0"`
	Height int64  `json:"height" validate:"required,gt=0"`
}

// LecturerRequest names the lecturer assigned at creation.
type LecturerRequest struct {
	NsUserID int64  `json:"ns_user_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required"`
}

// CreateSessionRequest describes a new session under an existing course.
type CreateSessionRequest struct {
	CourseID int64            `json:"course_id" validate:"required,gt=0"`
	Title    string           `json:"title" validate:"required,max=255"`
	Type     string           `json:"type" validate:"required,oneof=FREE PAID"`
	StartAt  time.Time        `json:"start_at" validate:"required"`
	EndAt    time.Time        `json:"end_at" validate:"required"`
	Capacity int              `json:"capacity" validate:"required_if=Type PAID,gte=0"`
	Fee      int64            `json:"fee" validate:"gte=0"`
	Images   []ImageRequest   `json:"images" validate:"dive"`
	Lecturer *LecturerRequest `json:"lecturer,omitempty"`
}

// SessionService loads session aggregates, runs their state transitions and persists the result.
// Mutations on the same session id are serialized within the process.
type SessionService struct {
	repos     SessionRepositories
	cache     *CacheService
	metrics   *MetricsService
	locks     *sessionLocks
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs SessionService. cache and metrics may be nil.
func NewSessionService(repos SessionRepositories, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repos:     repos,
		cache:     cache,
		metrics:   metrics,
		locks:     newSessionLocks(),
		validator: validate,
		logger:    logger,
	}
}

// FindByID returns the session aggregate, served from cache when possible.
func (s *SessionService) FindByID(ctx context.Context, id int64) (*models.Session, error) {
	if s.cache.Enabled() {
		var snapshot models.SessionSnapshot
		hit, err := s.cache.Get(ctx, s.cache.SessionKey(id), &snapshot)
		if err == nil && hit {
			session, err := snapshot.Restore()
			if err == nil {
				return session, nil
			}
			s.logger.Warn("discarding unreadable cached session", zap.Int64("session_id", id), zap.Error(err))
		}
	}

	// A snapshot is stored under the session lock so it never predates the last invalidation.
	release := s.locks.lock(id)
	defer release()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, session)
	return session, nil
}

// FindAllByCourseID returns every session of a course.
func (s *SessionService) FindAllByCourseID(ctx context.Context, courseID int64) ([]*models.Session, error) {
	done := s.track("sessions.find_all_by_course_id")
	records, err := s.repos.Sessions.FindAllByCourseID(ctx, courseID)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	sessions := make([]*models.Session, 0, len(records))
	for _, rec := range records {
		session, err := s.assemble(ctx, rec)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// Create validates req, checks the course exists and stores the session with its images and lecturer.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (int64, error) {
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if _, err := s.repos.Courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	session, err := buildSession(req)
	if err != nil {
		return 0, err
	}

	done := s.track("sessions.save")
	id, err := s.repos.Sessions.Save(ctx, session, req.CourseID)
	done()
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session")
	}
	session.ID = id

	if err := s.repos.Images.SaveAll(ctx, session.Images, id); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session images")
	}
	if lecturer := session.Lecturer(); lecturer != nil {
		lecturerID, err := s.repos.Lecturers.Save(ctx, lecturer, id)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save session lecturer")
		}
		lecturer.ID = lecturerID
	}

	s.logger.Info("session created",
		zap.Int64("session_id", id),
		zap.Int64("course_id", req.CourseID),
		zap.String("type", string(session.Type)),
	)
	return id, nil
}

// Register admits user onto the roster of the session, backed by payment.
func (s *SessionService) Register(ctx context.Context, sessionID int64, user *models.NsUser, payment *models.Payment) (*models.Session, error) {
	reg, err := models.NewRegistration(sessionID, user, payment)
	if err != nil {
		return nil, err
	}
	var sessionType models.SessionType
	session, err := s.mutate(ctx, sessionID, func(session *models.Session) error {
		sessionType = session.Type
		if session.HasStudent(user.ID) {
			return appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("user %d already registered", user.ID))
		}
		return session.Register(reg)
	}, s.saveRoster)
	if sessionType != "" {
		s.metrics.RecordRegistration(sessionType, err)
	}
	if err != nil {
		s.logger.Info("registration refused", zap.Int64("session_id", sessionID), zap.Int64("ns_user_id", user.ID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("student registered",
		zap.Int64("session_id", sessionID),
		zap.Int64("ns_user_id", user.ID),
		zap.String("payment_id", reg.PaymentID()),
	)
	return session, nil
}

// Accept marks the given users as accepted by lecturer.
func (s *SessionService) Accept(ctx context.Context, sessionID int64, lecturer *models.Lecturer, userIDs []int64) (*models.Session, error) {
	return s.decide(ctx, sessionID, lecturer, userIDs, models.StudentStatusAccepted)
}

// Reject marks the given users as rejected by lecturer.
func (s *SessionService) Reject(ctx context.Context, sessionID int64, lecturer *models.Lecturer, userIDs []int64) (*models.Session, error) {
	return s.decide(ctx, sessionID, lecturer, userIDs, models.StudentStatusRejected)
}

func (s *SessionService) decide(ctx context.Context, sessionID int64, lecturer *models.Lecturer, userIDs []int64, decision models.StudentStatus) (*models.Session, error) {
	applicants := make([]models.Student, 0, len(userIDs))
	for _, id := range userIDs {
		applicants = append(applicants, models.Student{SessionID: sessionID, NsUserID: id})
	}
	session, err := s.mutate(ctx, sessionID, func(session *models.Session) error {
		var err error
		if decision == models.StudentStatusAccepted {
			err = session.AcceptStudents(lecturer, applicants)
		} else {
			err = session.RejectStudents(lecturer, applicants)
		}
		return err
	}, s.saveRoster)
	s.metrics.RecordDecision(decision, err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("students decided",
		zap.Int64("session_id", sessionID),
		zap.String("decision", string(decision)),
		zap.Int64s("ns_user_ids", userIDs),
	)
	return session, nil
}

// Open starts recruitment.
func (s *SessionService) Open(ctx context.Context, id int64) (*models.Session, error) {
	session, err := s.mutate(ctx, id, func(session *models.Session) error {
		return session.Open()
	}, s.saveStatus)
	s.metrics.RecordTransition("open", err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session opened", zap.Int64("session_id", id))
	return session, nil
}

// Close ends the session. Closing twice is harmless.
func (s *SessionService) Close(ctx context.Context, id int64) (*models.Session, error) {
	session, err := s.mutate(ctx, id, func(session *models.Session) error {
		session.Close()
		return nil
	}, s.saveStatus)
	s.metrics.RecordTransition("close", err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session closed", zap.Int64("session_id", id))
	return session, nil
}

// mutate runs load, apply and persist while holding the lock of id, then drops the cached copy.
func (s *SessionService) mutate(ctx context.Context, id int64, apply func(*models.Session) error, persist func(context.Context, *models.Session) error) (*models.Session, error) {
	release := s.locks.lock(id)
	defer release()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(session); err != nil {
		return nil, err
	}
	if err := persist(ctx, session); err != nil {
		return nil, err
	}
	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx, s.cache.SessionKey(id)); err != nil {
			s.logger.Warn("cached session may be stale until ttl", zap.Int64("session_id", id), zap.Error(err))
		}
	}
	return session, nil
}

func (s *SessionService) saveRoster(ctx context.Context, session *models.Session) error {
	done := s.track("students.save_all")
	err := s.repos.Students.SaveAll(ctx, session.Students(), session.ID)
	done()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save students")
	}
	return nil
}

func (s *SessionService) saveStatus(ctx context.Context, session *models.Session) error {
	done := s.track("sessions.update_status")
	err := s.repos.Sessions.UpdateStatus(ctx, session.ID, session.Status())
	done()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session status")
	}
	return nil
}

func (s *SessionService) load(ctx context.Context, id int64) (*models.Session, error) {
	done := s.track("sessions.find_by_id")
	rec, err := s.repos.Sessions.FindByID(ctx, id)
	done()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return s.assemble(ctx, *rec)
}

// assemble loads the fragments stored next to rec and rebuilds the aggregate.
func (s *SessionService) assemble(ctx context.Context, rec models.SessionRecord) (*models.Session, error) {
	images, err := s.repos.Images.FindAllBySessionID(ctx, rec.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session images")
	}
	done := s.track("students.find_all_by_session_id")
	students, err := s.repos.Students.FindAllBySessionID(ctx, rec.ID)
	done()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session students")
	}
	lecturer, err := s.repos.Lecturers.FindBySessionID(ctx, rec.ID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session lecturer")
		}
	}

	session, err := models.RestoreSession(rec, images, students, lecturer)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored session is inconsistent")
	}
	return session, nil
}

func (s *SessionService) store(ctx context.Context, session *models.Session) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Set(ctx, s.cache.SessionKey(session.ID), models.NewSessionSnapshot(session), 0); err != nil {
		s.logger.Warn("session not cached", zap.Int64("session_id", session.ID), zap.Error(err))
	}
}

// PurgeCache drops every cached session.
func (s *SessionService) PurgeCache(ctx context.Context) error {
	if err := s.cache.Purge(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge session cache")
	}
	s.logger.Info("session cache purged")
	return nil
}

func (s *SessionService) track(operation string) func() {
	start := time.Now()
	return func() {
		s.metrics.ObserveRepository(operation, time.Since(start))
	}
}

func buildSession(req CreateSessionRequest) (*models.Session, error) {
	date, err := models.NewSessionDate(req.StartAt, req.EndAt)
	if err != nil {
		return nil, err
	}
	images := make([]models.Image, 0, len(req.Images))
	for _, ir := range req.Images {
		imageType, err := models.ParseImageType(ir.Type)
		if err != nil {
			return nil, err
		}
		img, err := models.NewImage(ir.SizeKB, imageType, ir.Width, ir.Height)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	sessionType, err := models.ParseSessionType(req.Type)
	if err != nil {
		return nil, err
	}

	var session *models.Session
	switch sessionType {
	case models.SessionTypePaid:
		capacity, err := models.NewSessionCapacity(req.Capacity)
		if err != nil {
			return nil, err
		}
		fee, err := models.NewMoney(req.Fee)
		if err != nil {
			return nil, err
		}
		session = models.NewPaidSession(req.Title, images, date, capacity, fee)
	default:
		session = models.NewFreeSession(req.Title, images, date)
	}
	session.CourseID = req.CourseID
	if req.Lecturer != nil {
		session.AssignLecturer(&models.Lecturer{NsUserID: req.Lecturer.NsUserID, Name: req.Lecturer.Name})
	}
	return session, nil
}
