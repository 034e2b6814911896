package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/task"
)

// lsCommand prints the task list, newest first.
func lsCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskdeck ls", flag.ContinueOnError)
	onlyDone := fs.Bool("done", false, "Show only completed tasks")
	onlyPending := fs.Bool("pending", false, "Show only pending tasks")
	verbose := fs.Bool("v", false, "Show ids and timestamps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	sess, backend, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	tasks := sess.Tasks()
	shown := 0
	for _, t := range tasks {
		if *onlyDone && !t.Done {
			continue
		}
		if *onlyPending && t.Done {
			continue
		}
		fmt.Println(formatTask(t, *verbose))
		shown++
	}
	if shown == 0 {
		fmt.Println("No tasks.")
	}

	stats := sess.Stats()
	fmt.Printf("\n%d total, %d done, %d pending\n", stats.Total, stats.Done, stats.Pending)
	return nil
}

// addCommand creates a task from the command line.
func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskdeck add", flag.ContinueOnError)
	desc := fs.String("desc", "", "Task description")
	done := fs.Bool("done", false, "Create the task already completed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("add requires a title")
	}

	sess, backend, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	created, err := sess.CreateTask(task.CreateInput{
		Title:       title,
		Description: *desc,
		Done:        *done,
	})
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	logger.Debug("task created", "id", created.ID)
	fmt.Printf("Added %s  %s\n", shortID(created.ID), created.Title)
	return nil
}

// toggleCommand flips a task's done flag via done/undo.
func toggleCommand(cfg *config.Config, logger *log.Logger, args []string, done bool) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one task id")
	}

	sess, backend, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	taskID, err := resolveTaskID(sess.Tasks(), args[0])
	if err != nil {
		return err
	}

	updated, err := sess.UpdateTask(taskID, task.Patch{Done: &done})
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if updated == nil {
		return fmt.Errorf("no task with id %s", taskID)
	}
	logger.Debug("task updated", "id", updated.ID, "done", updated.Done)
	state := "pending"
	if updated.Done {
		state = "done"
	}
	fmt.Printf("Marked %s %s  %s\n", shortID(updated.ID), state, updated.Title)
	return nil
}

// editCommand patches title and/or description. Only flags that were
// explicitly set end up in the patch.
func editCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskdeck edit", flag.ContinueOnError)
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description (empty clears it)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 1 {
		return fmt.Errorf("expected exactly one task id")
	}

	patch := task.Patch{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "desc":
			patch.Description = desc
		}
	})
	if patch.IsZero() {
		return fmt.Errorf("nothing to change; pass -title and/or -desc")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	sess, backend, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	taskID, err := resolveTaskID(sess.Tasks(), fs.Args()[0])
	if err != nil {
		return err
	}

	updated, err := sess.UpdateTask(taskID, patch)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if updated == nil {
		return fmt.Errorf("no task with id %s", taskID)
	}
	logger.Debug("task updated", "id", updated.ID)
	fmt.Printf("Updated %s  %s\n", shortID(updated.ID), updated.Title)
	return nil
}

// rmCommand deletes a single task after confirmation.
func rmCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskdeck rm", flag.ContinueOnError)
	force := fs.Bool("f", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 1 {
		return fmt.Errorf("expected exactly one task id")
	}

	sess, backend, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	taskID, err := resolveTaskID(sess.Tasks(), fs.Args()[0])
	if err != nil {
		return err
	}

	if !*force {
		var title string
		for _, t := range sess.Tasks() {
			if t.ID == taskID {
				title = t.Title
				break
			}
		}
		if !confirmPrompt(fmt.Sprintf("Delete %q?", title)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := sess.RemoveTask(taskID); err != nil {
		return fmt.Errorf("removing task: %w", err)
	}
	logger.Debug("task removed", "id", taskID)
	fmt.Printf("Removed %s\n", shortID(taskID))
	return nil
}

// clearCommand deletes the whole collection after confirmation.
func clearCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("taskdeck clear", flag.ContinueOnError)
	force := fs.Bool("f", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	sess, backend, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	total := sess.Stats().Total
	if total == 0 {
		fmt.Println("Nothing to clear.")
		return nil
	}
	if !*force && !confirmPrompt(fmt.Sprintf("Delete all %d tasks?", total)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := sess.Clear(); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	logger.Debug("tasks cleared", "count", total)
	fmt.Printf("Cleared %d tasks.\n", total)
	return nil
}

// statsCommand prints the derived counts.
func statsCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	sess, backend, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	stats := sess.Stats()
	fmt.Printf("Total:   %d\n", stats.Total)
	fmt.Printf("Done:    %d\n", stats.Done)
	fmt.Printf("Pending: %d\n", stats.Pending)
	return nil
}

// resolveTaskID matches arg against task ids, accepting a unique prefix.
func resolveTaskID(tasks []task.Task, arg string) (string, error) {
	var matches []string
	for _, t := range tasks {
		if t.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no task with id %s", arg)
	default:
		return "", fmt.Errorf("id %s is ambiguous (%d matches)", arg, len(matches))
	}
}

// shortID abbreviates an id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTask(t task.Task, verbose bool) string {
	check := "[ ]"
	if t.Done {
		check = "[x]"
	}
	line := fmt.Sprintf("%s %s  %s", check, shortID(t.ID), t.Title)
	if t.Description != "" {
		line += "  - " + t.Description
	}
	if verbose {
		line += fmt.Sprintf("  (id %s, created %s, updated %s)",
			t.ID,
			t.CreatedAt.Format("2006-01-02 15:04"),
			t.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return line
}

// confirmPrompt asks a yes/no question on stdin; anything but y/yes is no.
func confirmPrompt(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
