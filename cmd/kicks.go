package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kickit-app/kickit/internal/api/models"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/kickit-app/kickit/web/templates"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var listFlags struct {
	Status   string
	Category string
}

var kickFlags models.KickForm

var kicksCmd = &cobra.Command{
	Use:     "kicks",
	Aliases: []string{"kick"},
	Short:   "Manage your bucket list",
}

var listKicksCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your kicks",
	Example: `kickit kicks list --status Open --category Travel`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		svc, err := s.kicks()
		if err != nil {
			return err
		}
		all, err := svc.List(cmd.Context())
		if err != nil {
			return userError(err, "Failed to load kicks")
		}

		filtered := filterKicks(all, kickit.Status(listFlags.Status), kickit.Category(listFlags.Category))
		writeKickTable(cmd.OutOrStdout(), filtered)
		return nil
	},
}

var showKickCmd = &cobra.Command{
	Use:   "show <kick-id>",
	Short: "Show a kick with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		svc, err := s.kicks()
		if err != nil {
			return err
		}
		kick, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return userError(err, "Failed to load kick")
		}
		writeKickDetails(cmd.OutOrStdout(), *kick)
		return nil
	},
}

var addKickCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add a new kick",
	Example: `kickit kicks add --title "See the northern lights" --category Travel --date 2027-02-01`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		form := models.NewKickForm()
		applyKickFlags(cmd, &form)
		input, err := form.Input()
		if err != nil {
			return userError(err, "Failed to create kick")
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		svc, err := s.kicks()
		if err != nil {
			return err
		}
		kick, err := svc.Create(cmd.Context(), input)
		if err != nil {
			return userError(err, "Failed to create kick")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created kick %s (%s)\n", kick.Title, kick.ID) //nolint:errcheck
		return nil
	},
}

var editKickCmd = &cobra.Command{
	Use:     "edit <kick-id>",
	Short:   "Edit a kick",
	Example: `kickit kicks edit 64f0c1 --location Tromsø`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		svc, err := s.kicks()
		if err != nil {
			return err
		}
		current, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return userError(err, "Failed to load kick")
		}

		form := models.KickFormFrom(*current)
		applyKickFlags(cmd, &form)
		input, err := form.Input()
		if err != nil {
			return userError(err, "Failed to update kick")
		}

		kick, err := svc.Update(cmd.Context(), args[0], input)
		if err != nil {
			return userError(err, "Failed to update kick")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated kick %s\n", kick.Title) //nolint:errcheck
		return nil
	},
}

var toggleKickCmd = &cobra.Command{
	Use:   "toggle <kick-id>",
	Short: "Mark a kick completed or open it again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		svc, err := s.kicks()
		if err != nil {
			return err
		}
		current, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return userError(err, "Failed to load kick")
		}
		kick, err := svc.ToggleStatus(cmd.Context(), args[0], current.Status)
		if err != nil {
			return userError(err, "Failed to update status")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", kick.Title, kick.Status) //nolint:errcheck
		return nil
	},
}

var deleteKickCmd = &cobra.Command{
	Use:     "delete <kick-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a kick",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		svc, err := s.kicks()
		if err != nil {
			return err
		}
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return userError(err, "Failed to delete kick")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Kick deleted") //nolint:errcheck
		return nil
	},
}

// applyKickFlags copies the flags the user actually passed onto form.
func applyKickFlags(cmd *cobra.Command, form *models.KickForm) {
	flags := cmd.Flags()
	if flags.Changed("title") {
		form.Title = kickFlags.Title
	}
	if flags.Changed("description") {
		form.Description = kickFlags.Description
	}
	if flags.Changed("location") {
		form.Location = kickFlags.Location
	}
	if flags.Changed("category") {
		form.Category = kickFlags.Category
	}
	if flags.Changed("date") {
		form.TargetDate = kickFlags.TargetDate
	}
	if flags.Changed("status") {
		form.Status = kickFlags.Status
	}
}

func filterKicks(kicks []kickit.Kick, status kickit.Status, category kickit.Category) []kickit.Kick {
	return lo.Filter(kicks, func(k kickit.Kick, _ int) bool {
		if status != "" && !strings.EqualFold(string(k.Status), string(status)) {
			return false
		}
		if category != "" && !strings.EqualFold(string(k.Category), string(category)) {
			return false
		}
		return true
	})
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func writeKickTable(w io.Writer, kicks []kickit.Kick) {
	if len(kicks) == 0 {
		fmt.Fprintln(w, "No kicks yet. Add one with `kickit kicks add`.") //nolint:errcheck
		return
	}

	rows := lo.Map(kicks, func(k kickit.Kick, _ int) []string {
		return []string{
			k.ID,
			k.Title,
			string(k.Category),
			string(k.Status),
			templates.FormatDate(k.TargetDate),
			templates.Plural(len(k.Comments), "comment"),
		}
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "CATEGORY", "STATUS", "TARGET", "COMMENTS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render()) //nolint:errcheck

	summary := models.Summarize(kicks)
	fmt.Fprintf(w, "%s, %d completed, %d open\n", templates.Plural(summary.Total, "kick"), summary.Completed, summary.Open) //nolint:errcheck
}

func writeKickDetails(w io.Writer, k kickit.Kick) {
	title := lipgloss.NewStyle().Bold(true).Render(k.Title)
	fmt.Fprintf(w, "%s  [%s]\n", title, k.Status) //nolint:errcheck
	fmt.Fprintf(w, "ID:       %s\n", k.ID)        //nolint:errcheck
	fmt.Fprintf(w, "Category: %s\n", k.Category)  //nolint:errcheck
	if k.Location != "" {
		fmt.Fprintf(w, "Location: %s\n", k.Location) //nolint:errcheck
	}
	if !k.TargetDate.IsZero() {
		fmt.Fprintf(w, "Target:   %s\n", templates.FormatDate(k.TargetDate)) //nolint:errcheck
	}
	if k.Author != nil {
		fmt.Fprintf(w, "Author:   %s\n", k.Author.DisplayName()) //nolint:errcheck
	}
	if k.Description != "" {
		fmt.Fprintf(w, "\n%s\n", k.Description) //nolint:errcheck
	}

	fmt.Fprintf(w, "\n%s\n", templates.Plural(len(k.Comments), "comment")) //nolint:errcheck
	for _, c := range k.Comments {
		author := "Unknown"
		if c.Author != nil {
			author = c.Author.DisplayName()
		}
		when := templates.FormatRelativeTime(c.CreatedAt)
		fmt.Fprintf(w, "- %s (%s) %s: %s\n", author, c.ID, when, c.Text) //nolint:errcheck
	}
}

var errNoChanges = errors.New("nothing to change, pass at least one flag")

var kickFlagNames = []string{"title", "description", "location", "category", "date", "status"}

func addKickFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&kickFlags.Title, "title", "t", "", "Title of the kick")
	f.StringVarP(&kickFlags.Description, "description", "d", "", "Description")
	f.StringVarP(&kickFlags.Location, "location", "l", "", "Location")
	f.StringVar(&kickFlags.Category, "category", "", "Category: "+strings.Join(lo.Map(kickit.Categories, func(c kickit.Category, _ int) string { return string(c) }), ", "))
	f.StringVar(&kickFlags.TargetDate, "date", "", "Target date (YYYY-MM-DD)")
	f.StringVar(&kickFlags.Status, "status", "", "Status: Open or Completed")
}

func init() {
	listKicksCmd.Flags().StringVar(&listFlags.Status, "status", "", "Only show kicks with this status")
	listKicksCmd.Flags().StringVar(&listFlags.Category, "category", "", "Only show kicks in this category")

	addKickFlags(addKickCmd)
	addKickFlags(editKickCmd)
	editKickCmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		for _, name := range kickFlagNames {
			if cmd.Flags().Changed(name) {
				return nil
			}
		}
		return errNoChanges
	}

	kicksCmd.AddCommand(listKicksCmd, showKickCmd, addKickCmd, editKickCmd, toggleKickCmd, deleteKickCmd)
	rootCmd.AddCommand(kicksCmd)
}
