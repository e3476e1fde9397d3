package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"tnsystems-site/internal/forms"
	"tnsystems-site/internal/tui"
)

func newApplyCmd(a *app) *cobra.Command {
	var (
		fields forms.ApplicationFields
		plain  bool
	)
	cmd := &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Apply for an open position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			form := forms.NewApplication(id, a.client, a.logger)
			form.Fill(fields)
			res := form.Submit(cmd.Context())
			return report(cmd.OutOrStdout(), styles(plain), res.Status, res.Message, res.Reference, res.FieldErrors)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fields.Name, "name", "", "your full name (required)")
	f.StringVar(&fields.Email, "email", "", "your e-mail address (required)")
	f.StringVar(&fields.Phone, "phone", "", "phone number")
	f.StringVar(&fields.CoverLetter, "cover-letter", "", "cover letter text")
	f.StringVar(&fields.ResumeURL, "resume-url", "", "link to your resume")
	f.BoolVar(&plain, "plain", false, "disable colors and styling")
	return cmd
}

func newContactCmd(a *app) *cobra.Command {
	var (
		fields forms.ContactFields
		plain  bool
	)
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to TN Systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := forms.NewContact(a.client, a.logger)
			form.Fill(fields)
			res := form.Submit(cmd.Context())
			return report(cmd.OutOrStdout(), styles(plain), res.Status, res.Message, res.Reference, res.FieldErrors)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fields.Name, "name", "", "your name (required)")
	f.StringVar(&fields.Email, "email", "", "your e-mail address (required)")
	f.StringVar(&fields.Message, "message", "", "your message (required)")
	f.StringVar(&fields.Phone, "phone", "", "phone number")
	f.StringVar(&fields.Company, "company", "", "company name")
	f.StringVar(&fields.Service, "service", "", "service you are interested in")
	f.BoolVar(&plain, "plain", false, "disable colors and styling")
	return cmd
}

// report prints the outcome of a form submit, one line per rejected field
// in name order.
func report(w io.Writer, st tui.Styles, status forms.Status, msg, ref string, fieldErrs map[string]string) error {
	if status == forms.Submitted {
		fmt.Fprintln(w, st.Success.Render(msg))
		if ref != "" {
			fmt.Fprintln(w, st.Meta.Render("Reference: "+ref))
		}
		return nil
	}

	fmt.Fprintln(w, st.Error.Render(msg))
	names := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, fieldErrs[name])
	}
	return ErrReported
}
