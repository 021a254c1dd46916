package cmd

import (
	"fmt"
	"strings"

	"github.com/kickit-app/kickit/internal/api/models"
	"github.com/spf13/cobra"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Comment on kicks",
}

var addCommentCmd = &cobra.Command{
	Use:     "add <kick-id> <text...>",
	Short:   "Add a comment to a kick",
	Example: `kickit comments add 64f0c1 "Booked the flights!"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := models.CommentForm{Text: strings.Join(args[1:], " ")}
		if err := form.Validate(); err != nil {
			return userError(err, "Failed to add comment")
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
		comment, err := svc.AddComment(cmd.Context(), args[0], form.Text)
		if err != nil {
			return userError(err, "Failed to add comment")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added comment %s\n", comment.ID) //nolint:errcheck
		return nil
	},
}

var editCommentCmd = &cobra.Command{
	Use:   "edit <kick-id> <comment-id> <text...>",
	Short: "Change the text of a comment",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := models.CommentForm{Text: strings.Join(args[2:], " ")}
		if err := form.Validate(); err != nil {
			return userError(err, "Failed to update comment")
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
		if _, err := svc.UpdateComment(cmd.Context(), args[0], args[1], form.Text); err != nil {
			return userError(err, "Failed to update comment")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Comment updated") //nolint:errcheck
		return nil
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:     "delete <kick-id> <comment-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a comment",
	Args:    cobra.ExactArgs(2),
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
		if err := svc.DeleteComment(cmd.Context(), args[0], args[1]); err != nil {
			return userError(err, "Failed to delete comment")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Comment deleted") //nolint:errcheck
		return nil
	},
}

func init() {
	commentsCmd.AddCommand(addCommentCmd, editCommentCmd, deleteCommentCmd)
	rootCmd.AddCommand(commentsCmd)
}
