// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	xmlinfo "github.com/nicholasgasior/xmlinfo-go"
)

const (
	exitOK       = 0
	exitBadXML   = 1
	exitNoFile   = 2
	exitUsage    = 3
	exitInternal = 4
)

func init() {
	cli.HelpFlag = &cli.BoolFlag{
		Name:    "h",
		Aliases: []string{"?"},
		Usage:   "this help",
	}
}

// inputSpec is the parsed command line.
type inputSpec struct {
	path         string
	encodingName string
	quiet        bool
	verbose      bool
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	progname := "xmlinfo"
	if len(args) > 0 {
		progname = filepath.Base(args[0])
	}
	usage := usageText(progname)

	app := &cli.App{
		Name:                   progname,
		HideHelpCommand:        true,
		UseShortOptionHandling: true,
		CustomAppHelpTemplate:  usage,
		Reader:                 stdin,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "q",
				Usage:   "quiet",
				EnvVars: []string{"XMLINFO_QUIET"},
			},
			&cli.BoolFlag{
				Name:  "v",
				Usage: "verbose",
			},
			&cli.StringFlag{
				Name:    "e",
				Usage:   "output encoding",
				Value:   xmlinfo.DefaultEncoding,
				EnvVars: []string{"XMLINFO_ENCODING"},
			},
		},
		OnUsageError: func(_ *cli.Context, _ error, _ bool) error {
			fmt.Fprint(stderr, usage)
			return cli.Exit("", exitUsage)
		},
		// Exit codes are returned from run, never through os.Exit here.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(cCtx *cli.Context) error {
			spec := inputSpec{
				path:         "-",
				encodingName: cCtx.String("e"),
				quiet:        cCtx.Bool("q"),
				verbose:      cCtx.Bool("v"),
			}
			switch cCtx.NArg() {
			case 0:
			case 1:
				spec.path = cCtx.Args().First()
			default:
				fmt.Fprint(stderr, usage)
				return cli.Exit("", exitUsage)
			}
			return execute(spec, stdin, stdout, stderr, usage)
		},
	}

	return exitCode(app.Run(permute(args)))
}

// permute moves flags ahead of operands the way getopt does, so that
// "xmlinfo file.xml -q" is accepted. Everything after "--" is an operand.
func permute(args []string) []string {
	if len(args) == 0 {
		return args
	}
	flags := []string{args[0]}
	var operands []string
	for i := 1; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			operands = append(operands, args[i+1:]...)
			i = len(args)
		case len(a) < 2 || a[0] != '-':
			operands = append(operands, a)
		default:
			flags = append(flags, a)
			// -e and bundles ending in e, such as -qe, take the next argument.
			if a[1] != '-' && a[len(a)-1] == 'e' && !strings.Contains(a, "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	for _, op := range operands {
		if len(op) > 1 && op[0] == '-' {
			flags = append(flags, "--")
			break
		}
	}
	return append(flags, operands...)
}

func usageText(progname string) string {
	return fmt.Sprintf(`usage: %s [-h] [-q] [-v] [-e encoding] [filename]
    -q     quiet
    -v     verbose (debug output on stderr)
    -e     output encoding (<utf8>|utf16|iso-8859-1|...)
    -h     this help
`, progname)
}

func execute(spec inputSpec, stdin io.Reader, stdout, stderr io.Writer, usage string) error {
	log := newLogger(stderr, spec.verbose && !spec.quiet)
	errorf := func(format string, args ...any) {
		if !spec.quiet {
			fmt.Fprintf(stderr, format, args...)
		}
	}

	enc, err := xmlinfo.LookupEncoding(spec.encodingName)
	if err != nil {
		errorf("Unknown encoding: %s\n", spec.encodingName)
		fmt.Fprint(stderr, usage)
		return cli.Exit("", exitUsage)
	}
	log.WithField("encoding", enc.Name).Debug("output encoding resolved")

	inspector := xmlinfo.New()
	var doc *xmlinfo.Document
	if spec.path == "-" {
		doc, err = inspector.InspectReader(stdin, xmlinfo.StreamInfo{Filename: "-"})
	} else {
		doc, err = inspector.InspectFile(spec.path)
	}
	switch {
	case xmlinfo.IsNotFound(err):
		log.WithError(err).Debug("open failed")
		errorf("ERROR: unable to open %s\n", spec.path)
		return cli.Exit("", exitNoFile)
	case err != nil:
		var malformed *xmlinfo.MalformedError
		if errors.As(err, &malformed) {
			log.WithField("mime", malformed.MIMEType).WithError(malformed.Err).Debug("parse failed")
		}
		errorf("ERROR: badly formed document\n")
		return cli.Exit("", exitBadXML)
	}
	log.WithField("file", spec.path).WithField("dtd", doc.DTD != nil).Debug("document parsed")

	out, err := xmlinfo.NewOutput(stdout, enc)
	if err != nil {
		log.WithError(err).Debug("output creation failed")
		errorf("ERROR: unable to open output channel\n")
		return cli.Exit("", exitInternal)
	}
	if err := xmlinfo.Emit(out, doc); err != nil {
		log.WithError(err).Debug("write failed")
		errorf("ERROR: unable to open output channel\n")
		return cli.Exit("", exitInternal)
	}
	if err := out.Close(); err != nil {
		log.WithError(err).Debug("flush failed")
		errorf("ERROR: unable to open output channel\n")
		return cli.Exit("", exitInternal)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return exitInternal
}
