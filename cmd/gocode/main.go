package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/TalelKhemiri/GoCodeMobile/internal/app"
	"github.com/TalelKhemiri/GoCodeMobile/internal/auth"
	"github.com/TalelKhemiri/GoCodeMobile/internal/config"
	"github.com/TalelKhemiri/GoCodeMobile/internal/domain"
	"github.com/TalelKhemiri/GoCodeMobile/internal/errors"
	"github.com/TalelKhemiri/GoCodeMobile/internal/quiz"
)

const usage = `Usage: gocode <command> [arguments]

Commands:
  login <username> <password>      sign in
  register <username> <email> <password>
  logout                           sign out
  whoami                           show the cached identity
  courses                          list the course catalog
  learning                         list your courses
  enroll <courseID>                request access to a course
  play <courseID>                  open the course player
  quiz                             list quiz modules
  quiz <moduleID>                  start a quiz
  dashboard                        monitor: list enrollments
  manage <enrollmentID> <approve|reject>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	c, err := loadConfig()
	if err != nil {
		log.Fatalf("Load config failed: %v", err)
	}

	a, err := app.Init(c)
	if err != nil {
		log.Fatalf("Init app failed: %v", err)
	}
	defer a.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	if err := run(ctx, a, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Erreur :", userMessage(err))
		os.Exit(1)
	}
}

// userMessage keeps taxonomy messages ("Identifiants incorrects.", "Failed
// to fetch courses", ...) and falls back to the raw error for anything that
// was never classified.
func userMessage(err error) string {
	e := errors.Convert(err)
	if e.Code == errors.CodeInternal && e.Unwrap() != nil {
		return e.Unwrap().Error()
	}
	return e.Message
}

func loadConfig() (app.Config, error) {
	var c app.Config

	home, _ := os.UserHomeDir()
	c.API.BaseURL = "http://localhost:8000/api"
	c.API.Timeout = 30 * time.Second
	c.Storage.Path = filepath.Join(home, ".gocode", "gocode.db")

	p := os.Getenv("GOCODE_CONFIG")
	if p == "" {
		p = filepath.Join(home, ".gocode", "config.yaml")
	}

	if err := config.Load(p, &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}

func run(ctx context.Context, a *app.App, cmd string, args []string) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: gocode login <username> <password>")
		}
		if err := a.Auth().Login(ctx, auth.LoginRequest{Username: args[0], Password: args[1]}); err != nil {
			return err
		}
		acc, _ := a.Identity().Current()
		fmt.Printf("Connecté en tant que %s (%s)\n", acc.User, acc.Role)
		return nil

	case "register":
		if len(args) != 3 {
			return fmt.Errorf("usage: gocode register <username> <email> <password>")
		}
		if err := a.Auth().Register(ctx, auth.RegisterRequest{
			Username: args[0],
			Email:    args[1],
			Password: args[2],
		}); err != nil {
			return err
		}
		fmt.Println("Compte créé. Connectez-vous avec: gocode login")
		return nil

	case "logout":
		if err := a.Auth().Logout(ctx); err != nil {
			return err
		}
		fmt.Println("Déconnecté.")
		return nil

	case "whoami":
		acc, ok := a.Identity().Current()
		if !ok {
			fmt.Println("Non connecté.")
			return nil
		}
		fmt.Printf("%s (%s)\n", acc.User, acc.Role)
		if a.Identity().Expired(time.Now()) {
			fmt.Println("Session expirée, reconnectez-vous.")
		}
		return nil

	case "courses":
		courses, err := a.Catalog().Courses(ctx)
		if err != nil {
			return err
		}
		printCourses(os.Stdout, courses)
		return nil

	case "learning":
		courses, err := a.Catalog().MyCourses(ctx)
		if err != nil {
			return err
		}
		printCourses(os.Stdout, courses)
		return nil

	case "enroll":
		id, err := parseID(args, "usage: gocode enroll <courseID>")
		if err != nil {
			return err
		}
		if err := a.Catalog().Enroll(ctx, id); err != nil {
			return err
		}
		fmt.Println("Inscription validée ! Bonne route.")
		return nil

	case "play":
		id, err := parseID(args, "usage: gocode play <courseID>")
		if err != nil {
			return err
		}
		return playCourse(ctx, a, id, os.Stdin, os.Stdout)

	case "quiz":
		if len(args) == 0 {
			printModules(os.Stdout, a.Quiz().Modules())
			return nil
		}
		return playQuiz(a.Quiz(), args[0], os.Stdin, os.Stdout)

	case "dashboard":
		if err := a.Dashboard().Load(ctx); err != nil {
			return err
		}
		printEnrollments(os.Stdout, a.Dashboard().Enrollments())
		return nil

	case "manage":
		if len(args) != 2 {
			return fmt.Errorf("usage: gocode manage <enrollmentID> <approve|reject>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid enrollment id %q", args[0])
		}
		action := domain.EnrollmentAction(args[1])
		if !confirm(os.Stdin, os.Stdout, fmt.Sprintf("Confirmer l'action %q pour l'inscription %d ?", action, id)) {
			fmt.Println("Annulé.")
			return nil
		}
		if err := a.Dashboard().HandleAction(ctx, id, action); err != nil {
			return err
		}
		printEnrollments(os.Stdout, a.Dashboard().Enrollments())
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseID(args []string, use string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s", use)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func printCourses(w io.Writer, courses []domain.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "Aucun cours.")
		return
	}
	for _, c := range courses {
		status := ""
		switch c.EnrollmentStatus {
		case "pending":
			status = " [en attente]"
		case "rejected":
			status = " [refusé]"
		}
		fmt.Fprintf(w, "%4d  %s%s\n", c.ID, c.Title, status)
	}
}

func printModules(w io.Writer, modules []quiz.Module) {
	for _, m := range modules {
		fmt.Fprintf(w, "%-10s  %s — %s (%d questions)\n", m.ID, m.Title, m.Description, len(m.Questions))
	}
}

func printEnrollments(w io.Writer, entries []domain.Enrollment) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Aucune inscription.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%4d  %-20s %-30s %-10s %3d%%  %s\n",
			e.ID, e.StudentName, e.CourseTitle, e.Status, e.Progress, e.StudentEmail)
	}
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [o/N] ", prompt)
	sc := bufio.NewScanner(in)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "o" || answer == "oui" || answer == "y"
}

// playCourse runs the course-player loop: show the lesson list, complete and
// advance, or jump to a lesson.
func playCourse(ctx context.Context, a *app.App, courseID int64, in io.Reader, out io.Writer) error {
	ctrl := a.Course()
	if err := ctrl.LoadCourse(ctx, courseID, 0); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for {
		c := ctrl.Course()
		active, hasActive := ctrl.ActiveLesson()

		fmt.Fprintf(out, "\n== %s ==\n", c.Title)
		for _, l := range c.Lessons {
			marker := "  "
			if l.IsCompleted {
				marker = "✓ "
			}
			cursor := "  "
			if hasActive && l.ID == active.ID {
				cursor = "> "
			}
			fmt.Fprintf(out, "%s%s%4d  %s\n", cursor, marker, l.ID, l.Title)
		}

		if hasActive {
			fmt.Fprintf(out, "\n--- %s ---\n%s\n", active.Title, active.Content)
			if active.VideoURL != "" {
				fmt.Fprintf(out, "Vidéo : %s\n", strings.Replace(active.VideoURL, "watch?v=", "embed/", 1))
			}
		}

		fmt.Fprint(out, "\n[n] terminer et continuer  [s <id>] choisir une leçon  [q] quitter > ")
		if !sc.Scan() {
			return sc.Err()
		}

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q":
			return nil
		case "n":
			completed, err := ctrl.CompleteAndAdvance(ctx)
			if err != nil {
				fmt.Fprintln(out, "Erreur :", userMessage(err))
				continue
			}
			if completed {
				fmt.Fprintln(out, "\nFélicitations ! Vous avez terminé ce cours.")
			}
		case "s":
			if len(fields) != 2 {
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				continue
			}
			ctrl.SelectLesson(id)
		}
	}
}

// playQuiz runs one quiz attempt over the terminal.
func playQuiz(reg *quiz.Registry, moduleID string, in io.Reader, out io.Writer) error {
	m, err := reg.Module(moduleID)
	if err != nil {
		return err
	}

	s := quiz.NewSession(m)
	sc := bufio.NewScanner(in)

	for s.State() != quiz.StateResult {
		q := s.Question()
		fmt.Fprintf(out, "\n%s — Q. %d/%d\n%s\n", m.Title, s.Step()+1, len(m.Questions), q.Question)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			return sc.Err()
		}

		n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
		if err != nil {
			continue
		}
		s.Select(n - 1)
		s.Validate()

		if s.State() != quiz.StateChecked {
			continue
		}
		if s.Correct() {
			fmt.Fprintln(out, "Bonne réponse !")
		} else {
			fmt.Fprintf(out, "Mauvaise réponse. %s\n", q.Explanation)
		}
		s.Next()
	}

	fmt.Fprintf(out, "\nScore : %d / %d\n", s.Score(), len(m.Questions))
	if s.Passed() {
		fmt.Fprintln(out, "Félicitations !")
	} else {
		fmt.Fprintln(out, "Dommage... Réessayez avec: gocode quiz "+m.ID)
	}

	return nil
}
