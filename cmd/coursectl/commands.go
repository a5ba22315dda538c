package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/noah-isme/course-sessions/internal/models"
	"github.com/noah-isme/course-sessions/internal/service"
)

func (c *cli) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session with its roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, sessions sessionAPI) error {
				session, err := sessions.FindByID(ctx, id)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), newSessionView(session))
			})
		},
	}
}

func (c *cli) newListCmd() *cobra.Command {
	var courseID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sessions of a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, sessions sessionAPI) error {
				found, err := sessions.FindAllByCourseID(ctx, courseID)
				if err != nil {
					return err
				}
				views := make([]sessionView, 0, len(found))
				for _, s := range found {
					views = append(views, newSessionView(s))
				}
				return writeJSON(cmd.OutOrStdout(), views)
			})
		},
	}
	cmd.Flags().Int64Var(&courseID, "course", 0, "course id")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func (c *cli) newOpenCmd() *cobra.Command {
	return c.newTransitionCmd("open", "Start recruiting for a session", func(ctx context.Context, sessions sessionAPI, id int64) (*models.Session, error) {
		return sessions.Open(ctx, id)
	})
}

func (c *cli) newCloseCmd() *cobra.Command {
	return c.newTransitionCmd("close", "End a session and its recruitment", func(ctx context.Context, sessions sessionAPI, id int64) (*models.Session, error) {
		return sessions.Close(ctx, id)
	})
}

func (c *cli) newTransitionCmd(use, short string, transition func(context.Context, sessionAPI, int64) (*models.Session, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <session-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.run(cmd, func(ctx context.Context, sessions sessionAPI) error {
				session, err := transition(ctx, sessions, id)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), newSessionView(session))
			})
		},
	}
}

func (c *cli) newRegisterCmd() *cobra.Command {
	var (
		userID    int64
		amount    int64
		paymentID string
	)
	cmd := &cobra.Command{
		Use:   "register <session-id>",
		Short: "Register a paid-up user to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if paymentID == "" {
				paymentID = uuid.NewString()
			}
			user := &models.NsUser{ID: userID}
			payment := &models.Payment{ID: paymentID, SessionID: id, NsUserID: userID, Amount: amount, CreatedAt: time.Now().UTC()}
			return c.run(cmd, func(ctx context.Context, sessions sessionAPI) error {
				session, err := sessions.Register(ctx, id, user, payment)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), newSessionView(session))
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "registering user id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "paid amount")
	cmd.Flags().StringVar(&paymentID, "payment", "", "payment id (generated when empty)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (c *cli) newDecisionCmd(use, short string, decision models.StudentStatus) *cobra.Command {
	var (
		lecturerID int64
		userIDs    []int64
	)
	cmd := &cobra.Command{
		Use:   use + " <session-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			lecturer := &models.Lecturer{ID: lecturerID}
			return c.run(cmd, func(ctx context.Context, sessions sessionAPI) error {
				var session *models.Session
				if decision == models.StudentStatusAccepted {
					session, err = sessions.Accept(ctx, id, lecturer, userIDs)
				} else {
					session, err = sessions.Reject(ctx, id, lecturer, userIDs)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), newSessionView(session))
			})
		},
	}
	cmd.Flags().Int64Var(&lecturerID, "lecturer", 0, "deciding lecturer id")
	cmd.Flags().Int64SliceVar(&userIDs, "users", nil, "comma separated user ids")
	_ = cmd.MarkFlagRequired("lecturer")
	_ = cmd.MarkFlagRequired("users")
	return cmd
}

func (c *cli) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the session cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Drop every cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, func(ctx context.Context, sessions sessionAPI) error {
				if err := sessions.PurgeCache(ctx); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]bool{"purged": true})
			})
		},
	})
	return cmd
}

func (c *cli) newCreateCmd() *cobra.Command {
	var (
		req          service.CreateSessionRequest
		start, end   string
		images       []string
		lecturerUser int64
		lecturerName string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session under a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.StartAt, err = time.Parse(time.RFC3339, start); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			if req.EndAt, err = time.Parse(time.RFC3339, end); err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
			for _, raw := range images {
				img, err := parseImageFlag(raw)
				if err != nil {
					return err
				}
				req.Images = append(req.Images, img)
			}
			if lecturerUser > 0 {
				req.Lecturer = &service.LecturerRequest{NsUserID: lecturerUser, Name: lecturerName}
			}
			return c.run(cmd, func(ctx context.Context, sessions sessionAPI) error {
				id, err := sessions.Create(ctx, req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
			})
		},
	}
	flags := cmd.Flags()
	flags.Int64Var(&req.CourseID, "course", 0, "course id")
	flags.StringVar(&req.Title, "title", "", "session title")
	flags.StringVar(&req.Type, "type", string(models.SessionTypeFree), "FREE or PAID")
	flags.StringVar(&start, "start", "", "start time (RFC3339)")
	flags.StringVar(&end, "end", "", "end time (RFC3339)")
	flags.IntVar(&req.Capacity, "capacity", 0, "seat limit of a paid session")
	flags.Int64Var(&req.Fee, "fee", 0, "fee of a paid session")
	flags.StringArrayVar(&images, "image", nil, "cover image as SIZE_KB:TYPE:WIDTHxHEIGHT, repeatable")
	flags.Int64Var(&lecturerUser, "lecturer-user", 0, "user id of the lecturer")
	flags.StringVar(&lecturerName, "lecturer-name", "", "display name of the lecturer")
	for _, name := range []string{"course", "title", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// parseImageFlag reads SIZE_KB:TYPE:WIDTHxHEIGHT, e.g. 512:png:600x400.
func parseImageFlag(raw string) (service.ImageRequest, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return service.ImageRequest{}, fmt.Errorf("invalid image %q: want SIZE_KB:TYPE:WIDTHxHEIGHT", raw)
	}
	size, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return service.ImageRequest{}, fmt.Errorf("invalid image size %q: %w", parts[0], err)
	}
	dims := strings.SplitN(strings.ToLower(parts[2]), "x", 2)
	if len(dims) != 2 {
		return service.ImageRequest{}, fmt.Errorf("invalid image dimensions %q", parts[2])
	}
	width, err := strconv.ParseInt(dims[0], 10, 64)
	if err != nil {
		return service.ImageRequest{}, fmt.Errorf("invalid image width %q: %w", dims[0], err)
	}
	height, err := strconv.ParseInt(dims[1], 10, 64)
	if err != nil {
		return service.ImageRequest{}, fmt.Errorf("invalid image height %q: %w", dims[1], err)
	}
	return service.ImageRequest{SizeKB: size, Type: parts[1], Width: width, Height: height}, nil
}
