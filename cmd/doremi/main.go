// doremi is the command-line client: the same synchronization core the app
// embeds, driven from a terminal. Session state persists between invocations
// through the configured store backend.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/doremi/internal/client"
	"github.com/d60-Lab/doremi/internal/comments"
	"github.com/d60-Lab/doremi/internal/config"
	"github.com/d60-Lab/doremi/internal/feed"
	"github.com/d60-Lab/doremi/internal/lifecycle"
	"github.com/d60-Lab/doremi/internal/session"
	"github.com/d60-Lab/doremi/internal/social"
	"github.com/d60-Lab/doremi/internal/store"
	"github.com/d60-Lab/doremi/internal/toggle"
	"github.com/d60-Lab/doremi/pkg/logger"
)

// app bundles everything one command invocation needs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	sess  *session.Session
	api   *social.API
	scope *lifecycle.Scope
}

func newApp(cCtx *cli.Context) (*app, error) {
	cfg, err := config.Load(cCtx.String("config"))
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{Debug: cfg.Debug, SentryDSN: cfg.SentryDSN})
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.StorePath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			// A broken store degrades to in-memory, same as the app.
			log.Warn("session store unavailable", zap.Error(err))
			st = store.NewMemory()
		} else {
			st = store.NewDB(db)
		}
	case "redis":
		st = store.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	default:
		st = store.NewMemory()
	}

	sess := session.New(st)
	c := client.New(cfg.BaseURL,
		client.WithHTTPClient(client.RobustHTTPClient(log, cfg.HTTPTimeout, cfg.RetryMax)),
		client.WithTokenSource(sess),
		client.WithLogger(log),
	)
	return &app{
		cfg:   cfg,
		log:   log,
		sess:  sess,
		api:   social.New(c),
		scope: lifecycle.NewScope(),
	}, nil
}

func (a *app) requireActor() (string, error) {
	actor := a.sess.ActorID()
	if actor == "" {
		return "", cli.Exit("not logged in", 1)
	}
	return actor, nil
}

func (a *app) engine(kind toggle.Kind) *toggle.Engine {
	var op toggle.Op
	switch kind {
	case toggle.KindLike:
		op = toggle.LikeOp{API: a.api}
	case toggle.KindBookmark:
		op = toggle.BookmarkOp{API: a.api}
	default:
		op = toggle.FollowOp{API: a.api}
	}
	return toggle.NewEngine(op, a.sess.ActorID(), a.scope, a.log)
}

// runToggle fetches the confirmed state, flips it and prints the result.
func (a *app) runToggle(ctx context.Context, kind toggle.Kind, subjectID string) error {
	if _, err := a.requireActor(); err != nil {
		return err
	}
	e := a.engine(kind)
	e.FetchInitial(ctx, subjectID)
	e.Wait()
	e.Toggle(ctx, subjectID)
	e.Wait()
	st := e.Snapshot(subjectID)
	if st.LastError != "" {
		return cli.Exit(st.LastError, 1)
	}
	fmt.Printf("%s %s: active=%v counter=%d\n", kind, subjectID, st.Active, st.Counter)
	return nil
}

func printPosts(entries []feed.Entry) {
	for _, e := range entries {
		fmt.Printf("#%d @%s likes=%d comments=%d %s %v\n",
			e.PostID, e.AuthorID, e.LikeCount, e.CommentCount, e.Text, e.Hashtags)
	}
}

func main() {
	cliApp := &cli.App{
		Name:  "doremi",
		Usage: "social feed client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config file path", EnvVars: []string{"DOREMI_CONFIG"}},
		},
		Commands: []*cli.Command{
			{
				Name:      "login",
				ArgsUsage: "USER_ID PASSWORD",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if c.NArg() != 2 {
						return cli.Exit("usage: doremi login USER_ID PASSWORD", 1)
					}
					token, u, err := a.api.Login(c.Context, social.LoginRequest{
						UserID: c.Args().Get(0), Password: c.Args().Get(1),
					})
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					a.sess.SetToken(token)
					a.sess.SetUser(u)
					fmt.Printf("logged in as %s\n", u.UserID)
					return nil
				},
			},
			{
				Name: "logout",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					a.sess.Clear()
					fmt.Println("logged out")
					return nil
				},
			},
			{
				Name: "whoami",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					actor := a.sess.ActorID()
					if actor == "" {
						fmt.Println("not logged in")
						return nil
					}
					fmt.Println(actor)
					return nil
				},
			},
			{
				Name:      "register",
				ArgsUsage: "USER_ID PASSWORD NAME SEX BIRTHDATE",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if c.NArg() != 5 {
						return cli.Exit("usage: doremi register USER_ID PASSWORD NAME SEX BIRTHDATE", 1)
					}
					err = a.api.Register(c.Context, social.RegisterRequest{
						UserID:    c.Args().Get(0),
						Password:  c.Args().Get(1),
						Name:      c.Args().Get(2),
						Sex:       c.Args().Get(3),
						BirthDate: c.Args().Get(4),
					})
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Println("registered")
					return nil
				},
			},
			{
				Name:      "post",
				ArgsUsage: "CONTENT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hashtags", Usage: "comma-separated hashtags"},
					&cli.StringFlag{Name: "image", Usage: "image reference"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					actor, err := a.requireActor()
					if err != nil {
						return err
					}
					id, err := a.api.CreatePost(c.Context, social.CreatePostRequest{
						UserID:   actor,
						Content:  c.Args().First(),
						Hashtags: c.String("hashtags"),
						ImageDir: c.String("image"),
					})
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Printf("post %d created\n", id)
					return nil
				},
			},
			{
				Name: "feed",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "following", Usage: "show the following feed"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					actor, err := a.requireActor()
					if err != nil {
						return err
					}
					fc := feed.NewComposer(a.api, actor, a.scope, a.log, feed.Options{
						SearchQuiet: a.cfg.SearchQuiet,
						FanoutCap:   a.cfg.HashtagFanoutCap,
						FanoutRate:  a.cfg.FanoutRate,
					})
					if c.Bool("following") {
						fc.LoadFollowing(c.Context)
					} else {
						fc.LoadRecommended(c.Context)
					}
					fc.Wait()
					if msg := fc.LastError(); msg != "" {
						return cli.Exit(msg, 1)
					}
					if c.Bool("following") {
						printPosts(fc.Following())
					} else {
						printPosts(fc.Recommended())
					}
					return nil
				},
			},
			{
				Name:      "search",
				ArgsUsage: "TERM",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					actor, err := a.requireActor()
					if err != nil {
						return err
					}
					fc := feed.NewComposer(a.api, actor, a.scope, a.log, feed.Options{
						SearchQuiet: 10 * time.Millisecond, // no keystrokes to debounce here
						FanoutCap:   a.cfg.HashtagFanoutCap,
						FanoutRate:  a.cfg.FanoutRate,
					})
					fc.OnSearchInput(c.Args().First())
					time.Sleep(50 * time.Millisecond)
					fc.Wait()
					if msg := fc.LastError(); msg != "" {
						return cli.Exit(msg, 1)
					}
					printPosts(fc.SearchResults())
					return nil
				},
			},
			{
				Name:      "like",
				ArgsUsage: "POST_ID",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					return a.runToggle(c.Context, toggle.KindLike, c.Args().First())
				},
			},
			{
				Name:      "bookmark",
				ArgsUsage: "POST_ID",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					return a.runToggle(c.Context, toggle.KindBookmark, c.Args().First())
				},
			},
			{
				Name: "bookmarks",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					actor, err := a.requireActor()
					if err != nil {
						return err
					}
					posts, err := a.api.Bookmarks(c.Context, actor)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					for _, p := range posts {
						fmt.Printf("#%d @%s %s\n", p.PostID, p.UserID, p.Content)
					}
					return nil
				},
			},
			{
				Name:      "follow",
				ArgsUsage: "USER_ID",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					return a.runToggle(c.Context, toggle.KindFollow, c.Args().First())
				},
			},
			{
				Name:      "comments",
				ArgsUsage: "POST_ID",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					postID, err := strconv.ParseInt(c.Args().First(), 10, 64)
					if err != nil {
						return cli.Exit("invalid post id", 1)
					}
					cp := comments.NewComposer(a.api, a.sess.ActorID(), postID, a.scope, a.log)
					cp.Load(c.Context)
					cp.Wait()
					if msg := cp.LoadError(); msg != "" {
						return cli.Exit(msg, 1)
					}
					for _, n := range cp.Tree() {
						fmt.Printf("[%d] @%s %s\n", n.ID, n.AuthorID, n.Text)
						for _, r := range n.Replies {
							fmt.Printf("    [%d] @%s %s\n", r.ID, r.AuthorID, r.Text)
						}
					}
					return nil
				},
			},
			{
				Name:      "comment",
				ArgsUsage: "POST_ID TEXT",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "reply-to", Usage: "parent comment id"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if _, err := a.requireActor(); err != nil {
						return err
					}
					postID, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
					if err != nil {
						return cli.Exit("invalid post id", 1)
					}
					cp := comments.NewComposer(a.api, a.sess.ActorID(), postID, a.scope, a.log)
					cp.Load(c.Context)
					cp.Wait()
					if parent := c.Int64("reply-to"); parent != 0 {
						cp.AddReply(c.Context, parent, c.Args().Get(1))
						cp.Wait()
						if msg := cp.Entry(parent).LastError; msg != "" {
							return cli.Exit(msg, 1)
						}
					} else {
						cp.AddTopLevel(c.Context, c.Args().Get(1))
						cp.Wait()
						if msg := cp.SubmitError(); msg != "" {
							return cli.Exit(msg, 1)
						}
					}
					fmt.Println("comment posted")
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
