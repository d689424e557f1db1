package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/momentum/internal/domain"
	"github.com/mtlprog/momentum/internal/service"
	"github.com/mtlprog/momentum/internal/validation"
)

func runBoard(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	b, err := e.boardService(c.Context).Board(c.Context)
	if err != nil {
		return err
	}
	e.print(c, e.out.FormatBoard(b))
	return nil
}

func runFilterShow(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	e.print(c, e.out.FormatFilters(e.boardService(c.Context).Filters()))
	return nil
}

// categoryAndKey reads the <category> <key> arguments.
func categoryAndKey(c *cli.Context) (domain.FilterCategory, string, error) {
	if c.NArg() != 2 {
		return "", "", fmt.Errorf("expected <category> <key>, got %d arguments", c.NArg())
	}
	category, err := domain.ParseFilterCategory(c.Args().Get(0))
	if err != nil {
		return "", "", err
	}
	return category, c.Args().Get(1), nil
}

func runFilterToggle(c *cli.Context) error {
	category, key, err := categoryAndKey(c)
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	svc := e.boardService(c.Context)
	view, err := svc.ToggleFilter(c.Context, category, key)
	if err != nil {
		return err
	}
	if c.Bool("apply") {
		view = svc.ApplyFilters(c.Context)
	}
	e.print(c, e.out.FormatFilters(view))
	return nil
}

func runFilterApply(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	e.print(c, e.out.FormatFilters(e.boardService(c.Context).ApplyFilters(c.Context)))
	return nil
}

func runFilterRemove(c *cli.Context) error {
	category, key, err := categoryAndKey(c)
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	view, err := e.boardService(c.Context).RemoveFilter(c.Context, category, key)
	if err != nil {
		return err
	}
	e.print(c, e.out.FormatFilters(view))
	return nil
}

func runFilterClear(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	e.print(c, e.out.FormatFilters(e.boardService(c.Context).ClearFilters(c.Context)))
	return nil
}

// runTaskCreate resumes the saved draft, applies the given flags and submits.
// The draft is saved after every change, so a rejected submit can be
// completed by a later call with only the missing flags.
func runTaskCreate(c *cli.Context) error {
	ctx := c.Context

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	form := service.NewTaskFormService(e.api, e.state, validation.SystemClock)
	if err := form.Mount(ctx); err != nil {
		return err
	}
	defer form.Close()

	text := []string{validation.FieldTitle, validation.FieldDescription, validation.FieldDeadline}
	// Department goes before employee, which depends on it.
	ids := []string{validation.FieldStatus, validation.FieldPriority, validation.FieldDepartment, validation.FieldEmployee}

	for _, field := range text {
		if c.IsSet(field) {
			if err := form.Update(ctx, field, c.String(field)); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
		}
	}
	for _, field := range ids {
		if c.IsSet(field) {
			if err := form.Update(ctx, field, strconv.Itoa(c.Int(field))); err != nil {
				return fmt.Errorf("%s: %w", field, err)
			}
		}
	}

	if c.Bool("dry-run") {
		e.print(c, e.out.FormatTaskForm(form.View()))
		return nil
	}

	task, err := form.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrFormInvalid) {
			e.print(c, e.out.FormatTaskForm(form.View()))
		}
		return err
	}

	e.print(c, e.out.FormatMessage(fmt.Sprintf("Created task %d: %s", task.ID, task.Name)))
	return nil
}

func runTaskDraft(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	form := service.NewTaskFormService(e.api, e.state, validation.SystemClock)
	if err := form.Mount(c.Context); err != nil {
		return err
	}
	defer form.Close()

	e.print(c, e.out.FormatTaskForm(form.View()))
	return nil
}

func intArg(c *cli.Context, i int, name string) (int, error) {
	raw := c.Args().Get(i)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return v, nil
}

func runTaskShow(c *cli.Context) error {
	taskID, err := intArg(c, 0, "task id")
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	detail, err := service.NewTaskService(e.api).Get(c.Context, taskID)
	if err != nil {
		return err
	}
	e.print(c, e.out.FormatTask(detail))
	return nil
}

func runTaskStatus(c *cli.Context) error {
	taskID, err := intArg(c, 0, "task id")
	if err != nil {
		return err
	}
	statusID, err := intArg(c, 1, "status id")
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	task, err := service.NewTaskService(e.api).ChangeStatus(c.Context, taskID, statusID)
	if err != nil {
		return err
	}
	e.print(c, e.out.FormatMessage(fmt.Sprintf("Task %d moved to status %d", task.ID, statusID)))
	return nil
}

func runTaskComment(c *cli.Context) error {
	taskID, err := intArg(c, 0, "task id")
	if err != nil {
		return err
	}

	var parentID *int
	if c.IsSet("parent") {
		p := c.Int("parent")
		parentID = &p
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	comment, err := service.NewTaskService(e.api).AddComment(c.Context, taskID, c.Args().Get(1), parentID)
	if err != nil {
		return err
	}
	e.print(c, e.out.FormatMessage(fmt.Sprintf("Added comment %d to task %d", comment.ID, taskID)))
	return nil
}

func runEmployeeCreate(c *cli.Context) error {
	ctx := c.Context

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	form := service.NewEmployeeFormService(e.api)
	if err := form.Mount(ctx); err != nil {
		return err
	}
	defer form.Close()

	form.SetName(c.String("name"))
	form.SetSurname(c.String("surname"))
	if c.IsSet("department") {
		if err := form.SelectDepartment(c.Int("department")); err != nil {
			return err
		}
	}
	if path := c.Path("avatar"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read avatar: %w", err)
		}
		form.SetAvatar(filepath.Base(path), data)
	}

	employee, err := form.Submit(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrFormInvalid) {
			e.print(c, e.out.FormatEmployeeForm(form.View()))
		}
		return err
	}

	e.print(c, e.out.FormatMessage(fmt.Sprintf("Created employee %d: %s", employee.ID, employee.FullName())))
	return nil
}
