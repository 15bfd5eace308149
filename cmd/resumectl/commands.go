package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/resumeiq-api/internal/model"
	"github.com/yourusername/resumeiq-api/internal/service"
)

func newAnalyzeCmd(opts *cliOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "analyze <file|->",
		Short: "Score a résumé and suggest improvements",
		Example: `  resumectl analyze resume.pdf --role "backend developer"
  cat resume.txt | resumectl analyze - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			a, err := opts.newAnalyzer().Analyze(cmd.Context(), service.AnalyzeRequest{
				Text:         text,
				Role:         role,
				UseAssistant: opts.assistant,
			})
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), a)
			}
			printAnalysis(cmd, a)
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "target role (predicted when empty)")
	return cmd
}

func printAnalysis(cmd *cobra.Command, a *model.Analysis) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Role:      %s (confidence %.0f%%)\n", a.Role, a.RoleConfidence)
	fmt.Fprintf(w, "ATS:       %d/100\n", a.ATS.Score)
	fmt.Fprintf(w, "Quality:   %d/100 (%s)\n", a.Quality.OverallScore, a.Quality.Verdict)
	fmt.Fprintf(w, "Strength:  %d/100 (%s)\n", a.Strength.Score, a.Strength.Label)
	fmt.Fprintf(w, "Verdict:   %s\n", a.FinalVerdict)
	if len(a.ATS.MatchedSkills) > 0 {
		fmt.Fprintf(w, "Matched:   %s\n", strings.Join(a.ATS.MatchedSkills, ", "))
	}
	if len(a.ATS.MissingSkills) > 0 {
		fmt.Fprintf(w, "Missing:   %s\n", strings.Join(a.ATS.MissingSkills, ", "))
	}
	if len(a.Improvements.ActionItems) > 0 {
		fmt.Fprintln(w, "\nNext steps:")
		for _, item := range a.Improvements.ActionItems {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}

func newSectionsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <file|->",
		Short: "Split a résumé into labeled sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, profile, err := opts.newAnalyzer().Parse(text)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]any{"sections": doc, "profile": profile})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SECTION\tLINES\tFIRST LINE")
			for _, kind := range doc.Kinds() {
				s, _ := doc.Section(kind)
				first, _, _ := strings.Cut(s.Content, "\n")
				fmt.Fprintf(tw, "%s\t%d-%d\t%s\n", s.DisplayName, s.StartOffset, s.EndOffset, first)
			}
			return tw.Flush()
		},
	}
}

func newBatchCmd(opts *cliOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Score several résumés concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]service.AnalyzeRequest, len(args))
			for i, path := range args {
				text, err := readInput(cmd, path)
				if err != nil {
					return err
				}
				reqs[i] = service.AnalyzeRequest{Text: text, Role: role, UseAssistant: opts.assistant}
			}

			results, err := opts.newAnalyzer().AnalyzeBatch(cmd.Context(), reqs)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), results)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tROLE\tATS\tQUALITY\tSTRENGTH")
			for i, a := range results {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", args[i], a.Role, a.ATS.Score, a.Quality.OverallScore, a.Strength.Score)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "target role for every résumé (predicted when empty)")
	return cmd
}

func newMatchCmd(opts *cliOptions) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "match <resume> <job-description>",
		Short: "Compare a résumé with a job description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resume, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			jd, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}

			res, err := opts.newAnalyzer().MatchJobDescription(cmd.Context(), resume, jd, role, opts.assistant)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), res)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Match:     %d/100 (%s)\n", res.ATSMatchScore, res.RoleFit)
			fmt.Fprintf(w, "Matched:   %s\n", strings.Join(res.MatchedSkills, ", "))
			fmt.Fprintf(w, "Missing:   %s\n", strings.Join(res.MissingSkills, ", "))
			for _, s := range res.Suggestions {
				fmt.Fprintf(w, "  - %s\n", s)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "target role")
	return cmd
}

func newRewriteCmd(opts *cliOptions) *cobra.Command {
	var role, level string

	cmd := &cobra.Command{
		Use:   "rewrite <file|->",
		Short: "Rewrite a résumé for a target role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := opts.newAnalyzer().Rewrite(cmd.Context(), text, role, level, opts.assistant)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), res)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n\n", res.Summary)
			for _, b := range res.Experience {
				fmt.Fprintf(w, "  - %s\n", b)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "target role")
	cmd.Flags().StringVarP(&level, "level", "l", "", "seniority level (inferred when empty)")
	return cmd
}

func newRolesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the roles with a skill table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles := opts.newAnalyzer().Roles().Roles()
			if opts.json {
				return printJSON(cmd.OutOrStdout(), roles)
			}
			for _, r := range roles {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
}
