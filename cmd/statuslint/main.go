// Command statuslint checks JSON encoded google.rpc.Status documents against
// the detail kinds and codes errstatus accepts.
//
//	statuslint [--kind BadRequest] [--log-format text|stackdriver] [--quiet] [FILE...]
//
// With no files, documents are read from stdin. A file may hold any number of
// concatenated documents. Each valid document is printed as
//
//	<kind>	<status>	<message>
//
// and statuslint exits non-zero if any document is rejected.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	stackdriver "github.com/Mattel/logrus-stackdriver-formatter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ClaudiaJ/errstatus"
)

var version = "devel"

var errRejected = errors.New("one or more documents rejected")

type options struct {
	kind      string
	logFormat string
	quiet     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "statuslint [FILE...]",
		Short:         "Validates JSON encoded rpc statuses and their error details",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			logger, err := newLogger(c.ErrOrStderr(), opts.logFormat)
			if err != nil {
				return err
			}
			errstatus.SetErrorHandler(errstatus.NewLogrusHandler(logger))
			defer errstatus.SetErrorHandler(nil)

			l := &linter{out: c.OutOrStdout(), log: logger, quiet: opts.quiet}
			if opts.kind != "" {
				k, err := errstatus.ParseKind(opts.kind)
				if err != nil {
					return err
				}
				l.kind = k
			}

			if len(args) == 0 {
				l.lint("<stdin>", c.InOrStdin())
			}
			for _, name := range args {
				if err := l.lintFile(name); err != nil {
					return err
				}
			}

			if l.rejected > 0 {
				logger.WithField("rejected", l.rejected).WithField("checked", l.checked).Error("statuslint: " + errRejected.Error())
				return errRejected
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "require every document to be of this detail kind, e.g. BadRequest")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "log output format (text|stackdriver)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only report rejected documents")
	return cmd
}

func newLogger(w io.Writer, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	switch format {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "stackdriver":
		logger.SetFormatter(stackdriver.NewFormatter(
			stackdriver.WithService("statuslint"),
			stackdriver.WithVersion(version),
		))
	default:
		return nil, fmt.Errorf("unknown log format %q, must be text or stackdriver", format)
	}
	return logger, nil
}

type linter struct {
	out   io.Writer
	log   logrus.FieldLogger
	kind  errstatus.Kind
	quiet bool

	checked  int
	rejected int
}

func (l *linter) lintFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	l.lint(name, f)
	return nil
}

// lint checks every document in r. Documents that are not even well-formed
// JSON stop the reader, since there is no way to find the next one.
func (l *linter) lint(source string, r io.Reader) {
	dec := json.NewDecoder(r)
	for i := 0; ; i++ {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return
		}

		log := l.log.WithField("source", source).WithField("document", i)
		l.checked++
		if err != nil {
			l.rejected++
			log.WithError(err).Error("statuslint: malformed document")
			return
		}

		s, err := l.check(raw)
		if err != nil {
			l.rejected++
			log.WithError(err).Error("statuslint: invalid status")
			continue
		}
		if !l.quiet {
			fmt.Fprintf(l.out, "%s\t%s\t%s\n", s.Kind(), s.StatusName(), s.Message())
		}
	}
}

// check decodes raw as the required kind when one is set, so a document
// without details on a shared code is read as that kind.
func (l *linter) check(raw json.RawMessage) (errstatus.Status, error) {
	b := bytes.TrimSpace(raw)
	if l.kind != 0 {
		return errstatus.UnmarshalKind(b, l.kind)
	}
	return errstatus.Unmarshal(b)
}
