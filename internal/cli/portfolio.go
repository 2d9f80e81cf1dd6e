package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/cobra"
)

var creationCmd = &cobra.Command{
	Use:     "creation",
	Aliases: []string{"portfolio"},
	Short:   "Manage the portfolio of creations",
}

var creationAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a creation to the portfolio",
	Long: `Add a creation to the portfolio.

Examples:
  awaree creation add "Identité Café Lune" --category Branding --image lune.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCreationAdd,
}

var creationListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List creations, newest first",
	RunE:    runCreationList,
}

var creationDeleteCmd = &cobra.Command{
	Use:     "rm [creation-id]",
	Aliases: []string{"delete"},
	Short:   "Remove a creation",
	Args:    cobra.ExactArgs(1),
	RunE:    runCreationDelete,
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Show or change the colors of status tags",
	RunE:  runTagList,
}

var tagSetCmd = &cobra.Command{
	Use:   "set [tag] [color]",
	Short: "Paint a tag with a theme color",
	Long: `Paint a tag with a theme color. Tags are project statuses and "urgent".

Colors: blue, orange, pink, purple, red, slate

Examples:
  awaree tag set urgent red
  awaree tag set "en cours" purple`,
	Args: cobra.ExactArgs(2),
	RunE: runTagSet,
}

var (
	creationCategory string
	creationImage    string
	creationSearch   string
)

func init() {
	creationAddCmd.Flags().StringVarP(&creationCategory, "category", "c", model.DefaultCategory, "Category")
	creationAddCmd.Flags().StringVarP(&creationImage, "image", "i", "", "Image file")
	creationListCmd.Flags().StringVarP(&creationSearch, "search", "s", "", "Search titles and categories")

	creationCmd.AddCommand(creationAddCmd)
	creationCmd.AddCommand(creationListCmd)
	creationCmd.AddCommand(creationDeleteCmd)

	tagCmd.AddCommand(tagSetCmd)
}

func runCreationAdd(cmd *cobra.Command, args []string) error {
	imageURL := ""
	if creationImage != "" {
		var err error
		if imageURL, _, err = dataURI(creationImage); err != nil {
			return err
		}
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	creations, c, err := sess.studio.AddCreation(sess.state.Creations, joinArgs(args), creationCategory, imageURL)
	if err != nil {
		return err
	}
	sess.state.Creations = creations
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🎨 Added to portfolio: %s (%s)\n", c.Title, c.Category)
	return nil
}

func runCreationList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	creations := studio.SearchCreations(sess.state.Creations, creationSearch)
	out := cmd.OutOrStdout()
	if len(creations) == 0 {
		fmt.Fprintln(out, "No creations found.")
		return nil
	}
	fmt.Fprintln(out)
	for _, c := range creations {
		image := ""
		if c.ImageURL != "" {
			image = "🖼"
		}
		fmt.Fprintf(out, "  %-8s  %s  %-30s  %-20s %s\n", shortID(c.ID), formatDay(c.CreatedAt), truncate(c.Title, 30), c.Category, image)
	}
	fmt.Fprintf(out, "\n  %d creations\n\n", len(creations))
	return nil
}

func runCreationDelete(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	id, title := args[0], ""
	for _, c := range sess.state.Creations {
		if c.ID == id || strings.HasPrefix(c.ID, id) {
			id, title = c.ID, c.Title
			break
		}
	}
	if sess.state.Creations, err = studio.DeleteCreation(sess.state.Creations, id); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Removed from portfolio: %s\n", title)
	return nil
}

func runTagList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	out := cmd.OutOrStdout()
	tags := make([]string, 0, len(sess.state.TagColors))
	for tag := range sess.state.TagColors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	fmt.Fprintln(out)
	for _, tag := range tags {
		color := sess.state.TagColors.ColorFor(tag)
		fmt.Fprintf(out, "  %-12s  %-7s  %s\n", tag, color, model.ThemeColors[color])
	}
	fmt.Fprintln(out)
	return nil
}

func runTagSet(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	tag, color := args[0], strings.ToLower(args[1])
	if status, err := model.ParseStatus(tag); err == nil {
		tag = string(status)
	}
	if sess.state.TagColors, err = studio.SetTagColor(sess.state.TagColors, tag, color); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🎨 %s is now %s\n", tag, color)
	return nil
}
