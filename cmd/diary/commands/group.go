package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tunsmm/diary-network/internal/models"
	"github.com/tunsmm/diary-network/internal/store"
)

var (
	// Group flags
	groupTitle       string
	groupSlug        string
	groupDescription string
)

// groupCmd represents the group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups",
	Long: `Groups are created and edited by administrators only.

Subcommands:
  create  - Add a group
  update  - Change a group's title, slug or description
  delete  - Remove a group together with its posts
  list    - Show all groups`,
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a group",
	Long: `Add a group.

Examples:
  diary group create --title "Travel" --slug travel --description "Trips and notes"`,
	Args: cobra.NoArgs,
	RunE: withGroups(func(ctx context.Context, groups store.GroupRepository, cmd *cobra.Command, _ []string) error {
		return createGroup(ctx, groups, cmd.OutOrStdout(), groupTitle, groupSlug, groupDescription)
	}),
}

var groupUpdateCmd = &cobra.Command{
	Use:   "update <slug>",
	Short: "Change a group",
	Args:  cobra.ExactArgs(1),
	RunE: withGroups(func(ctx context.Context, groups store.GroupRepository, cmd *cobra.Command, args []string) error {
		changes := groupChanges{}
		if cmd.Flags().Changed("title") {
			changes.Title = &groupTitle
		}
		if cmd.Flags().Changed("slug") {
			changes.Slug = &groupSlug
		}
		if cmd.Flags().Changed("description") {
			changes.Description = &groupDescription
		}
		return updateGroup(ctx, groups, cmd.OutOrStdout(), args[0], changes)
	}),
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Remove a group and every post filed under it",
	Args:  cobra.ExactArgs(1),
	RunE: withGroups(func(ctx context.Context, groups store.GroupRepository, cmd *cobra.Command, args []string) error {
		return deleteGroup(ctx, groups, cmd.OutOrStdout(), args[0])
	}),
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all groups",
	Args:  cobra.NoArgs,
	RunE: withGroups(func(ctx context.Context, groups store.GroupRepository, cmd *cobra.Command, _ []string) error {
		return listGroups(ctx, groups, cmd.OutOrStdout())
	}),
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupCreateCmd, groupUpdateCmd, groupDeleteCmd, groupListCmd)

	groupCreateCmd.Flags().StringVar(&groupTitle, "title", "", "Group title (max 63 characters)")
	groupCreateCmd.Flags().StringVar(&groupSlug, "slug", "", "Unique URL slug")
	groupCreateCmd.Flags().StringVar(&groupDescription, "description", "", "Group description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")

	groupUpdateCmd.Flags().StringVar(&groupTitle, "title", "", "New title")
	groupUpdateCmd.Flags().StringVar(&groupSlug, "slug", "", "New slug")
	groupUpdateCmd.Flags().StringVar(&groupDescription, "description", "", "New description")
}

type groupRunner func(ctx context.Context, groups store.GroupRepository, cmd *cobra.Command, args []string) error

// withGroups opens the database for the duration of a group subcommand.
func withGroups(run groupRunner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		return run(cmd.Context(), store.NewGormStore(db.GetDB()), cmd, args)
	}
}

type groupChanges struct {
	Title       *string
	Slug        *string
	Description *string
}

func validateGroup(g *models.Group) error {
	if g.Title == "" || g.Slug == "" {
		return errors.New("title and slug are required")
	}
	if len([]rune(g.Title)) > 63 {
		return errors.New("title must be at most 63 characters")
	}
	if len([]rune(g.Description)) > 255 {
		return errors.New("description must be at most 255 characters")
	}
	return nil
}

func createGroup(ctx context.Context, groups store.GroupRepository, out io.Writer, title, slug, description string) error {
	group := &models.Group{Title: title, Slug: slug, Description: description}
	if err := validateGroup(group); err != nil {
		return err
	}
	if err := groups.CreateGroup(ctx, group); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("group with slug %q already exists", slug)
		}
		return fmt.Errorf("create group: %w", err)
	}
	fmt.Fprintf(out, "Created group %q (id %d)\n", group.Slug, group.ID)
	return nil
}

func updateGroup(ctx context.Context, groups store.GroupRepository, out io.Writer, slug string, changes groupChanges) error {
	group, err := groups.FindGroupBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("find group %q: %w", slug, err)
	}
	if changes.Title != nil {
		group.Title = *changes.Title
	}
	if changes.Slug != nil {
		group.Slug = *changes.Slug
	}
	if changes.Description != nil {
		group.Description = *changes.Description
	}
	if err := validateGroup(group); err != nil {
		return err
	}
	if err := groups.UpdateGroup(ctx, group); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("group with slug %q already exists", group.Slug)
		}
		return fmt.Errorf("update group: %w", err)
	}
	fmt.Fprintf(out, "Updated group %q\n", group.Slug)
	return nil
}

func deleteGroup(ctx context.Context, groups store.GroupRepository, out io.Writer, slug string) error {
	group, err := groups.FindGroupBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("find group %q: %w", slug, err)
	}
	if err := groups.DeleteGroup(ctx, group.ID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	fmt.Fprintf(out, "Deleted group %q\n", slug)
	return nil
}

func listGroups(ctx context.Context, groups store.GroupRepository, out io.Writer) error {
	list, err := groups.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE\tDESCRIPTION")
	for _, g := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", g.ID, g.Slug, g.Title, g.Description)
	}
	return w.Flush()
}
