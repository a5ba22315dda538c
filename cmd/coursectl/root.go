package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-sessions/internal/models"
	"github.com/noah-isme/course-sessions/internal/service"
)

type sessionAPI interface {
	FindByID(ctx context.Context, id int64) (*models.Session, error)
	FindAllByCourseID(ctx context.Context, courseID int64) ([]*models.Session, error)
	Create(ctx context.Context, req service.CreateSessionRequest) (int64, error)
	Register(ctx context.Context, sessionID int64, user *models.NsUser, payment *models.Payment) (*models.Session, error)
	Accept(ctx context.Context, sessionID int64, lecturer *models.Lecturer, userIDs []int64) (*models.Session, error)
	Reject(ctx context.Context, sessionID int64, lecturer *models.Lecturer, userIDs []int64) (*models.Session, error)
	Open(ctx context.Context, id int64) (*models.Session, error)
	Close(ctx context.Context, id int64) (*models.Session, error)
	PurgeCache(ctx context.Context) error
}

type opener func(ctx context.Context, envFile string) (sessionAPI, func(), error)

func openSessions(ctx context.Context, envFile string) (sessionAPI, func(), error) {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return nil, nil, err
	}
	return a.sessions, a.close, nil
}

type cli struct {
	envFile string
	open    opener
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(openSessions)
}

func newRootCmdWith(open opener) *cobra.Command {
	c := &cli{open: open}
	root := &cobra.Command{
		Use:           "coursectl",
		Short:         "Operate course sessions and their enrollment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the environment")

	root.AddCommand(
		c.newCreateCmd(),
		c.newShowCmd(),
		c.newListCmd(),
		c.newOpenCmd(),
		c.newCloseCmd(),
		c.newRegisterCmd(),
		c.newDecisionCmd("accept", "Accept applicants of a session", models.StudentStatusAccepted),
		c.newDecisionCmd("reject", "Reject applicants of a session", models.StudentStatusRejected),
		c.newCacheCmd(),
	)
	return root
}

// run opens the service for one command and releases it afterwards.
func (c *cli) run(cmd *cobra.Command, fn func(ctx context.Context, sessions sessionAPI) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sessions, release, err := c.open(ctx, c.envFile)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, sessions)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid session id %q", raw)
	}
	return id, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
