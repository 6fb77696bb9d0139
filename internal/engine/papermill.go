package engine

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Executor runs a notebook with injected parameters.
type Executor interface {
	Execute(ctx context.Context, input, output string, params []Parameter, kernel string) error
}

// Papermill executes notebooks with the papermill CLI. Parameters are
// handed over as a YAML document so their coerced types survive.
type Papermill struct {
	Binary string
	Runner Runner
}

// Execute implements Executor.
func (p *Papermill) Execute(ctx context.Context, input, output string, params []Parameter, kernel string) error {
	args, err := p.Args(input, output, params, kernel)
	if err != nil {
		return err
	}
	return p.Runner.Run(ctx, p.Binary, args...)
}

// Args builds the papermill command line.
func (p *Papermill) Args(input, output string, params []Parameter, kernel string) ([]string, error) {
	args := []string{input, output}
	if len(params) > 0 {
		doc, err := parametersYAML(params)
		if err != nil {
			return nil, err
		}
		args = append(args, "-y", doc)
	}
	if kernel != "" {
		args = append(args, "-k", kernel)
	}
	return args, nil
}

func parametersYAML(params []Parameter) (string, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range params {
		var value yaml.Node
		if err := value.Encode(p.Value); err != nil {
			return "", fmt.Errorf("encode parameter %s: %w", p.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: p.Name},
			&value,
		)
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	return string(out), nil
}
