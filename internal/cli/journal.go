package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/existflow/awaree/internal/model"
	"github.com/existflow/awaree/internal/studio"
	"github.com/spf13/cobra"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Write in the workshop journal of a project",
}

var noteAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a journal entry",
	Long: `Add a journal entry, optionally with images.

Examples:
  awaree note add "Premiers croquis validés"
  awaree note add --image sketch.png --image ref.gif`,
	RunE: runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List journal entries, newest first",
	RunE:    runNoteList,
}

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Manage the moodboard of a project",
}

var moodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Pin a color, a text or an image",
	Long: `Pin an inspiration on the moodboard. Exactly one of --color, --text or
--image is required.

Examples:
  awaree mood add --color "#FF5733" --label "Accent"
  awaree mood add --text "Brutalisme suisse"
  awaree mood add --image ref.jpg`,
	Args: cobra.NoArgs,
	RunE: runMoodAdd,
}

var moodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List moodboard items",
	RunE:    runMoodList,
}

var moodDeleteCmd = &cobra.Command{
	Use:     "rm [item-id]",
	Aliases: []string{"delete"},
	Short:   "Remove a moodboard item",
	Args:    cobra.ExactArgs(1),
	RunE:    runMoodDelete,
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Archive versions of a project",
}

var versionAddCmd = &cobra.Command{
	Use:   "add [label]",
	Short: "Archive a new version",
	Long: `Archive a new version. The label defaults to the next number (V1, V2...).

Examples:
  awaree version add --notes "Retours du jury intégrés" --image v2.png
  awaree version add "Finale"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVersionAdd,
}

var versionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List archived versions",
	RunE:    runVersionList,
}

var (
	journalProject string

	noteImages []string

	moodColor string
	moodText  string
	moodImage string
	moodLabel string

	versionNotes string
	versionImage string
)

func init() {
	for _, c := range []*cobra.Command{noteCmd, moodCmd, versionCmd} {
		c.PersistentFlags().StringVarP(&journalProject, "project", "P", "", "Project (defaults to the current one)")
	}

	noteAddCmd.Flags().StringArrayVarP(&noteImages, "image", "i", nil, "Attach an image file (repeatable)")
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)

	moodAddCmd.Flags().StringVar(&moodColor, "color", "", "CSS color, e.g. #FF5733")
	moodAddCmd.Flags().StringVar(&moodText, "text", "", "Free text")
	moodAddCmd.Flags().StringVar(&moodImage, "image", "", "Image file")
	moodAddCmd.Flags().StringVarP(&moodLabel, "label", "l", "", "Caption")
	moodCmd.AddCommand(moodAddCmd)
	moodCmd.AddCommand(moodListCmd)
	moodCmd.AddCommand(moodDeleteCmd)

	versionAddCmd.Flags().StringVarP(&versionNotes, "notes", "n", "", "What changed")
	versionAddCmd.Flags().StringVarP(&versionImage, "image", "i", "", "Preview image file")
	versionCmd.AddCommand(versionAddCmd)
	versionCmd.AddCommand(versionListCmd)
}

// attachment turns an image file into a note attachment
func attachment(path string) (model.Attachment, error) {
	uri, mime, err := dataURI(path)
	if err != nil {
		return model.Attachment{}, err
	}
	kind := model.AttachmentImage
	if mime == "image/gif" {
		kind = model.AttachmentGIF
	}
	return model.Attachment{Type: kind, URL: uri}, nil
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	text := joinArgs(args)
	if text == "" && len(noteImages) == 0 {
		return fmt.Errorf("nothing to add: give some text or --image")
	}
	attachments := make([]model.Attachment, 0, len(noteImages))
	for _, path := range noteImages {
		a, err := attachment(path)
		if err != nil {
			return err
		}
		attachments = append(attachments, a)
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(journalProject)
	if err != nil {
		return err
	}
	p, _, err = sess.studio.AddNote(p, text, attachments...)
	if err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📝 Journal of %s: %d entries\n", p.Name, len(p.Notes))
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(journalProject)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(p.Notes) == 0 {
		fmt.Fprintf(out, "No journal entries for %s.\n", p.Name)
		return nil
	}
	fmt.Fprintln(out)
	for _, n := range p.Notes {
		fmt.Fprintf(out, "  %s %s\n", model.Time(n.Timestamp).Format("02/01/2006 15:04"), strings.Repeat("─", 40))
		if n.Content != "" {
			for _, line := range strings.Split(n.Content, "\n") {
				fmt.Fprintf(out, "  %s\n", line)
			}
		}
		for _, a := range n.Attachments {
			fmt.Fprintf(out, "  🖼  %s (%d bytes)\n", a.Type, len(a.URL))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runMoodAdd(cmd *cobra.Command, args []string) error {
	var (
		kind    model.InspirationType
		content string
		given   int
	)
	if moodColor != "" {
		kind, content = model.InspirationColor, moodColor
		given++
	}
	if moodText != "" {
		kind, content = model.InspirationText, moodText
		given++
	}
	if moodImage != "" {
		uri, _, err := dataURI(moodImage)
		if err != nil {
			return err
		}
		kind, content = model.InspirationImage, uri
		given++
	}
	if given != 1 {
		return fmt.Errorf("give exactly one of --color, --text or --image")
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(journalProject)
	if err != nil {
		return err
	}
	p, item, err := sess.studio.AddInspiration(p, kind, content, moodLabel)
	if err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📌 Pinned %s to %s (%s)\n", item.Type, p.Name, shortID(item.ID))
	return nil
}

func runMoodList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(journalProject)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(p.Inspirations) == 0 {
		fmt.Fprintf(out, "Moodboard of %s is empty.\n", p.Name)
		return nil
	}
	fmt.Fprintln(out)
	for _, item := range p.Inspirations {
		content := item.Content
		if item.Type == model.InspirationImage {
			content = fmt.Sprintf("image (%d bytes)", len(content))
		}
		fmt.Fprintf(out, "  %-8s  %-6s  %-30s  %s\n", shortID(item.ID), item.Type, truncate(content, 30), item.Label)
	}
	fmt.Fprintln(out)
	return nil
}

func runMoodDelete(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(journalProject)
	if err != nil {
		return err
	}
	id := args[0]
	for _, item := range p.Inspirations {
		if strings.HasPrefix(item.ID, id) {
			id = item.ID
			break
		}
	}
	if p, err = sess.studio.DeleteInspiration(p, id); err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "🗑️  Removed from moodboard")
	return nil
}

func runVersionAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(journalProject)
	if err != nil {
		return err
	}

	form := studio.VersionForm{Label: argOrEmpty(args), Notes: versionNotes}
	if form.Label == "" {
		form.Label = studio.NextVersionLabel(p)
	}
	if versionImage != "" {
		if form.ImageURL, _, err = dataURI(versionImage); err != nil {
			return err
		}
		form.FileName = filepath.Base(versionImage)
	}

	p, v, err := sess.studio.AddVersion(p, form)
	if err != nil {
		return err
	}
	if err := sess.update(p); err != nil {
		return err
	}
	if err := sess.commit(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🗂️  Archived %s of %s\n", v.Label, p.Name)
	return nil
}

func runVersionList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.close()

	p, err := sess.project(journalProject)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(p.Versions) == 0 {
		fmt.Fprintf(out, "No versions archived for %s.\n", p.Name)
		return nil
	}
	fmt.Fprintln(out)
	for _, v := range p.Versions {
		file := ""
		if v.FileName != "" {
			file = " [" + v.FileName + "]"
		}
		fmt.Fprintf(out, "  %-8s  %s  %s%s\n", v.Label, formatDay(v.CreatedAt), v.Notes, file)
	}
	fmt.Fprintln(out)
	return nil
}
