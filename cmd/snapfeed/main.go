package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"snapfeed/internal/api"
	"snapfeed/internal/config"
	"snapfeed/internal/models"
	"snapfeed/internal/screens"
	"snapfeed/internal/session"
)

func main() {
	cmd := flag.String("cmd", "feed", "Command: register|login|logout|whoami|feed|like|post|show-post|profile|edit-profile|avatar|follow|unfollow|search|comments|comment|delete-post")
	email := flag.String("email", "", "Email (register/login)")
	password := flag.String("password", "", "Password (register/login)")
	username := flag.String("username", "", "Username (register/edit-profile)")
	name := flag.String("name", "", "Full name (register/edit-profile)")
	bio := flag.String("bio", "", "Bio (edit-profile)")
	caption := flag.String("caption", "", "Caption (post)")
	media := flag.String("media", "", "Comma-separated media file paths (post)")
	file := flag.String("file", "", "Image file (avatar)")
	text := flag.String("text", "", "Comment text (comment)")
	user := flag.String("user", "", "User ID (profile/follow/unfollow)")
	post := flag.String("post", "", "Post ID (like/comments/comment/delete-post)")
	query := flag.String("query", "", "Search query (search)")
	serverFlag := flag.String("server", "", "Override API base URL")
	flag.Parse()

	cfg := config.Load()
	if *serverFlag != "" {
		cfg.APIBaseURL = strings.TrimRight(*serverFlag, "/")
	}

	store, err := session.Open(filepath.Join(cfg.DataDir, "session.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if exp, ok := store.ExpiresAt(); ok && time.Now().After(exp) {
		log.Println("stored session has expired; log in again")
	}

	client := api.New(cfg.APIBaseURL, store)

	a := &app{client: client, store: store}
	run := map[string]func() error{
		"register":     func() error { return a.register(*email, *password, *username, *name) },
		"login":        func() error { return a.login(*email, *password) },
		"logout":       a.logout,
		"whoami":       a.whoami,
		"feed":         a.feed,
		"like":         func() error { return a.like(*post) },
		"post":         func() error { return a.post(*caption, *media) },
		"profile":      func() error { return a.profile(*user) },
		"edit-profile": func() error { return a.editProfile(*username, *name, *bio) },
		"avatar":       func() error { return a.avatar(*file) },
		"follow":       func() error { return a.follow(*user, true) },
		"unfollow":     func() error { return a.follow(*user, false) },
		"search":       func() error { return a.search(*query) },
		"show-post":    func() error { return a.showPost(*post) },
		"comments":     func() error { return a.comments(*post) },
		"comment":      func() error { return a.comment(*post, *text) },
		"delete-post":  func() error { return a.deletePost(*post) },
	}

	fn, ok := run[*cmd]
	if !ok {
		fmt.Println("Unknown command:", *cmd)
		os.Exit(1)
	}
	if err := fn(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

type app struct {
	client *api.Client
	store  *session.Store
}

func (a *app) register(email, password, username, name string) error {
	auth := screens.NewAuth(a.client, a.store)
	defer auth.Close()

	req := models.RegisterRequest{Email: email, Password: password, Username: username}
	if name != "" {
		req.FullName = &name
	}
	u, err := auth.Register(req)
	if err != nil {
		return err
	}
	fmt.Println("Registered and logged in as", u.Username)
	return nil
}

func (a *app) login(email, password string) error {
	auth := screens.NewAuth(a.client, a.store)
	defer auth.Close()

	u, err := auth.Login(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Println("Logged in as", u.Username)
	return nil
}

func (a *app) logout() error {
	auth := screens.NewAuth(a.client, a.store)
	defer auth.Close()
	if err := auth.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (a *app) whoami() error {
	u, ok := a.store.User()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s> (id %s)\n", u.Username, u.Email, u.ID)
	if exp, ok := a.store.ExpiresAt(); ok {
		fmt.Println("Session expires", exp.Format(time.RFC1123))
	}
	return nil
}

func (a *app) feed() error {
	feed := screens.NewFeed(a.client)
	defer feed.Close()

	if err := feed.Load(); err != nil {
		return err
	}
	if len(feed.Items) == 0 {
		fmt.Println("Your feed is empty. Follow people to see their posts.")
		return nil
	}
	for _, it := range feed.Items {
		printPost(it.Post)
	}
	return nil
}

func (a *app) like(postID string) error {
	if postID == "" {
		return fmt.Errorf("--post required")
	}
	feed := screens.NewFeed(a.client)
	defer feed.Close()

	if err := feed.Load(); err != nil {
		return err
	}
	i := feed.IndexOf(postID)
	if i < 0 {
		return fmt.Errorf("post %s is not in your feed", postID)
	}
	if err := feed.ToggleLike(i); err != nil {
		return err
	}
	it := feed.Items[i]
	if it.IsLiked {
		fmt.Printf("Liked %s (%d likes)\n", it.ID, it.LikesCount)
	} else {
		fmt.Printf("Unliked %s (%d likes)\n", it.ID, it.LikesCount)
	}
	return nil
}

func (a *app) post(caption, media string) error {
	compose := screens.NewCompose(a.client)
	defer compose.Close()

	if err := compose.SetCaption(caption); err != nil {
		return err
	}
	for _, path := range strings.Split(media, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if err := compose.AddMediaFile(path); err != nil {
			return err
		}
	}
	p, err := compose.Submit()
	if err != nil {
		return err
	}
	fmt.Println("Posted", p.ID)
	return nil
}

func (a *app) profile(userID string) error {
	var screen *screens.Profile
	if userID == "" {
		u, ok := a.store.User()
		if !ok {
			return fmt.Errorf("not logged in; pass --user to view a profile")
		}
		screen = screens.NewOwnProfile(a.client, u.ID)
	} else {
		screen = screens.NewUserProfile(a.client, userID)
	}
	defer screen.Close()

	if err := screen.Load(); err != nil {
		return err
	}
	printProfile(*screen.Info)
	fmt.Printf("%d posts in grid\n", len(screen.Posts))
	for _, p := range screen.Posts {
		printPost(p)
	}
	return nil
}

func (a *app) editProfile(username, name, bio string) error {
	u, ok := a.store.User()
	if !ok {
		return fmt.Errorf("not logged in")
	}
	screen := screens.NewOwnProfile(a.client, u.ID)
	defer screen.Close()

	if err := screen.Load(); err != nil {
		return err
	}
	if err := screen.BeginEdit(); err != nil {
		return err
	}
	if username != "" {
		screen.Buffer.Username = username
	}
	if name != "" {
		screen.Buffer.FullName = name
	}
	if bio != "" {
		screen.Buffer.Bio = bio
	}
	if err := screen.SaveEdit(); err != nil {
		return err
	}
	fmt.Println("Profile updated")
	printProfile(*screen.Info)
	return nil
}

func (a *app) avatar(file string) error {
	if file == "" {
		return fmt.Errorf("--file required")
	}
	u, ok := a.store.User()
	if !ok {
		return fmt.Errorf("not logged in")
	}
	screen := screens.NewOwnProfile(a.client, u.ID)
	defer screen.Close()
	if err := screen.Load(); err != nil {
		return err
	}

	// Reuse the compose packaging to turn the file into a data URI.
	compose := screens.NewCompose(a.client)
	defer compose.Close()
	if err := compose.AddMediaFile(file); err != nil {
		return err
	}
	if err := screen.UpdateAvatar(compose.Media[0].URI); err != nil {
		return err
	}
	fmt.Println("Avatar updated")
	return nil
}

func (a *app) follow(userID string, follow bool) error {
	if userID == "" {
		return fmt.Errorf("--user required")
	}
	screen := screens.NewUserProfile(a.client, userID)
	defer screen.Close()

	if err := screen.Load(); err != nil {
		return err
	}
	if screen.Info.IsFollowing == follow {
		fmt.Println("Nothing to do")
		return nil
	}
	if err := screen.ToggleFollow(); err != nil {
		return err
	}
	if follow {
		fmt.Println("Now following", screen.Info.Username)
	} else {
		fmt.Println("Unfollowed", screen.Info.Username)
	}
	return nil
}

func (a *app) search(query string) error {
	screen := screens.NewSearch(a.client)
	defer screen.Close()

	if err := screen.Run(query); err != nil {
		return err
	}
	if len(screen.Results) == 0 {
		fmt.Println("No users found")
		return nil
	}
	for _, r := range screen.Results {
		line := "@" + r.Username
		if r.FullName != nil {
			line += " (" + *r.FullName + ")"
		}
		if r.IsFollowing {
			line += " [following]"
		}
		fmt.Println(line, "-", r.ID)
	}
	return nil
}

func (a *app) showPost(postID string) error {
	if postID == "" {
		return fmt.Errorf("--post required")
	}
	screen := screens.NewComments(a.client, postID)
	defer screen.Close()

	if err := screen.Load(); err != nil {
		return err
	}
	printPost(*screen.Post)
	for _, cm := range screen.Items {
		fmt.Printf("      @%s: %s\n", cm.Username, cm.Text)
	}
	return nil
}

func (a *app) comments(postID string) error {
	if postID == "" {
		return fmt.Errorf("--post required")
	}
	screen := screens.NewComments(a.client, postID)
	defer screen.Close()

	if err := screen.Load(); err != nil {
		return err
	}
	if len(screen.Items) == 0 {
		fmt.Println("No comments yet")
		return nil
	}
	for _, cm := range screen.Items {
		fmt.Printf("@%s: %s (%s)\n", cm.Username, cm.Text, cm.CreatedAt.Format(time.RFC822))
	}
	return nil
}

func (a *app) comment(postID, text string) error {
	if postID == "" || text == "" {
		return fmt.Errorf("--post and --text required")
	}
	screen := screens.NewComments(a.client, postID)
	defer screen.Close()

	if err := screen.Add(text); err != nil {
		return err
	}
	fmt.Println("Comment added")
	return nil
}

func (a *app) deletePost(postID string) error {
	if postID == "" {
		return fmt.Errorf("--post required")
	}
	u, ok := a.store.User()
	if !ok {
		return fmt.Errorf("not logged in")
	}
	screen := screens.NewOwnProfile(a.client, u.ID)
	defer screen.Close()

	if err := screen.Load(); err != nil {
		return err
	}
	if err := screen.DeletePost(postID); err != nil {
		return err
	}
	fmt.Println("Deleted", postID)
	return nil
}

func printPost(p models.Post) {
	caption := ""
	if p.Caption != nil {
		caption = *p.Caption
	}
	liked := " "
	if p.IsLiked {
		liked = "*"
	}
	fmt.Printf("[%s] @%-15s %s\n", p.ID, p.Username, caption)
	fmt.Printf("      %d media  %s%d likes  %d comments  %s\n",
		len(p.Media), liked, p.LikesCount, p.CommentsCount, p.CreatedAt.Format(time.RFC822))
}

func printProfile(p models.Profile) {
	fmt.Printf("@%s", p.Username)
	if p.FullName != nil {
		fmt.Printf(" (%s)", *p.FullName)
	}
	fmt.Println()
	if p.Bio != nil && *p.Bio != "" {
		fmt.Println(*p.Bio)
	}
	fmt.Printf("%d posts  %d followers  %d following\n",
		p.PostsCount, p.FollowersCount, p.FollowingCount)
}
