package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/workflow"
)

var errDeclined = errors.New("purchase declined")

// terminalCollector answers workflow requests on a terminal.
type terminalCollector struct {
	in  *bufio.Reader
	out io.Writer
}

var _ workflow.Collector = (*terminalCollector)(nil)

func newTerminalCollector(in io.Reader, out io.Writer) *terminalCollector {
	return &terminalCollector{in: bufio.NewReader(in), out: out}
}

func (c *terminalCollector) Collect(ctx context.Context, req workflow.Request) (types.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Err != nil {
		c.showError(req.Err)
	}

	switch req.Capability {
	case workflow.CapabilityReview:
		ok, err := c.confirm("Card details are next. Continue with this gateway?")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errDeclined
		}
		return types.Confirmation{}, nil

	case workflow.CapabilityForm, workflow.CapabilityEmail, workflow.CapabilityVerifyCode:
		form, ok := req.Step.(*types.FormStep)
		if !ok {
			return nil, fmt.Errorf("unexpected step %T for %s", req.Step, req.Capability)
		}
		return c.form(form, req.Prefill)

	case workflow.CapabilityPickOne:
		step, ok := req.Step.(*types.PickOneStep)
		if !ok {
			return nil, fmt.Errorf("unexpected step %T for %s", req.Step, req.Capability)
		}
		return c.pickOne(step)

	case workflow.CapabilityUpload:
		step, ok := req.Step.(*types.FileStep)
		if !ok {
			return nil, fmt.Errorf("unexpected step %T for %s", req.Step, req.Capability)
		}
		return c.upload(step)

	case workflow.CapabilityConfirmPayment:
		c.showLink(req.Step.TargetURL())
		if _, err := c.prompt("Press Enter once the payment is confirmed"); err != nil {
			return nil, err
		}
		return types.Confirmation{}, nil

	case workflow.CapabilityWait:
		if step, ok := req.Step.(*types.WaitStep); ok && step.Message != "" {
			fmt.Fprintln(c.out, step.Message)
		}
		if _, err := c.prompt("Press Enter to check again"); err != nil {
			return nil, err
		}
		return types.Confirmation{}, nil
	}
	return nil, fmt.Errorf("unsupported capability %q", req.Capability)
}

func (c *terminalCollector) form(form *types.FormStep, prefill types.FieldMap) (types.FieldMap, error) {
	values := types.FieldMap{}
	for _, f := range form.Data {
		label := f.HumanName
		if label == "" {
			label = f.Name
		}
		if f.Hint != "" {
			label += " (" + f.Hint + ")"
		}
		if f.Type == types.FieldTypeDate {
			label += " [YYYY-MM-DD]"
		}
		if len(f.Options) > 0 {
			label += " {" + strings.Join(f.Options, "|") + "}"
		}
		def, hasDef := prefill[f.Name]
		if hasDef {
			label += fmt.Sprintf(" [%v]", def)
		}

		for {
			raw, err := c.prompt(label)
			if err != nil {
				return nil, err
			}
			if raw == "" {
				if hasDef {
					values[f.Name] = def
					break
				}
				if !f.IsRequired() {
					break
				}
				fmt.Fprintln(c.out, "  a value is required")
				continue
			}
			v, err := parseField(f, raw)
			if err != nil {
				fmt.Fprintf(c.out, "  %v\n", err)
				continue
			}
			values[f.Name] = v
			break
		}
	}
	return values, nil
}

func parseField(f types.Field, raw string) (any, error) {
	switch f.Type {
	case types.FieldTypeInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", raw)
		}
		return n, nil
	case types.FieldTypeBoolean:
		switch strings.ToLower(raw) {
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		return nil, fmt.Errorf("answer yes or no")
	case types.FieldTypeDate:
		return types.ParseDate(raw)
	case types.FieldTypeChoice:
		for _, o := range f.Options {
			if strings.EqualFold(o, raw) {
				return o, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of the options", raw)
	default:
		return raw, nil
	}
}

func (c *terminalCollector) pickOne(step *types.PickOneStep) (types.FieldMap, error) {
	title := step.Title
	if title == "" {
		title = step.HumanName
	}
	if title != "" {
		fmt.Fprintln(c.out, title)
	}
	for i, o := range step.Options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, o)
	}

	for {
		raw, err := c.prompt("Choose")
		if err != nil {
			return nil, err
		}
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(step.Options) {
			return types.FieldMap{step.FieldName(): step.Options[n-1]}, nil
		}
		if step.HasOption(raw) {
			return types.FieldMap{step.FieldName(): raw}, nil
		}
		fmt.Fprintln(c.out, "  pick one of the listed options")
	}
}

func (c *terminalCollector) upload(step *types.FileStep) (*types.FilePayload, error) {
	label := step.HumanName
	if label == "" {
		label = "Document"
	}
	for {
		path, err := c.prompt(label + " file path")
		if err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(c.out, "  %v\n", err)
			continue
		}
		contentType := http.DetectContentType(content)
		if !accepts(step.AcceptedContentTypes, contentType) {
			fmt.Fprintf(c.out, "  %s files are not accepted\n", contentType)
			continue
		}
		return &types.FilePayload{
			Name:        filepath.Base(path),
			ContentType: contentType,
			Content:     content,
		}, nil
	}
}

func accepts(accepted []string, contentType string) bool {
	if len(accepted) == 0 {
		return true
	}
	base := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	for _, a := range accepted {
		if strings.EqualFold(a, base) {
			return true
		}
	}
	return false
}

func (c *terminalCollector) showLink(url string) {
	fmt.Fprintf(c.out, "Complete the payment at:\n  %s\n", url)
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return
	}
	fmt.Fprintln(c.out, q.ToSmallString(false))
}

func (c *terminalCollector) showError(stepErr *types.StepError) {
	switch stepErr.Kind() {
	case types.StepErrorFields, types.StepErrorField:
		for name, msg := range stepErr.FieldMessages() {
			fmt.Fprintf(c.out, "! %s: %s\n", name, msg)
		}
	default:
		fmt.Fprintf(c.out, "! %s\n", stepErr.Message)
	}
}

func (c *terminalCollector) confirm(question string) (bool, error) {
	answer, err := c.prompt(question + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (c *terminalCollector) prompt(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
