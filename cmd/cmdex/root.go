package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Expert21/cmdex/config"
	"github.com/Expert21/cmdex/errors"
	"github.com/Expert21/cmdex/hostinfo"
	"github.com/Expert21/cmdex/llm"
	"github.com/Expert21/cmdex/persona"
	"github.com/Expert21/cmdex/prompt"
	"github.com/Expert21/cmdex/repl"
)

// app bundles everything a command needs: validated config, the loaded
// persona registry, the backend client, and the detected host context.
// Building it is the fatal-error zone; once it exists, failures are
// turn-scoped.
type app struct {
	cfg     *config.Config
	reg     *persona.Registry
	client  llm.Client
	host    hostinfo.Context
	builder *prompt.Builder
}

// newApp loads configuration and assembles the collaborators. personaFlag,
// when non-empty, overrides the configured default persona for this run.
func newApp(personaFlag string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	defaultPersona := cfg.DefaultPersona()
	if personaFlag != "" {
		defaultPersona = personaFlag
	}
	reg, err := persona.Load(cfg.PersonaDefinitions(), defaultPersona)
	if err != nil {
		return nil, err
	}

	client, err := buildClient(cfg)
	if err != nil {
		return nil, err
	}

	host := hostinfo.Detect()
	return &app{
		cfg:     cfg,
		reg:     reg,
		client:  client,
		host:    host,
		builder: prompt.NewBuilder(reg, host),
	}, nil
}

// buildClient selects the backend from the config llm key.
func buildClient(cfg *config.Config) (llm.Client, error) {
	switch cfg.LLMClient {
	case config.BackendOllama, "":
		c := llm.NewOllamaClient(cfg.Ollama.Host, cfg.Model(), cfg.Timeout())
		c.Debug = cfg.Debug
		return c, nil
	case config.BackendOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.Model()), nil
	case config.BackendMock:
		return &llm.MockClient{}, nil
	default:
		return nil, errors.New("unknown llm backend %q (expected ollama, openai, or mock)", cfg.LLMClient)
	}
}

func checkBackend(cmd *cobra.Command, a *app) error {
	if err := a.client.CheckHealth(cmd.Context()); err != nil {
		return errors.Wrapf(err, "backend is not reachable; is the model server running")
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var personaFlag string
	var showVersion bool

	root := &cobra.Command{
		Use:           "cmdex",
		Short:         "Generate and explain terminal commands with a local language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "cmdex version %s\n", version)
				return nil
			}
			a, err := newApp(personaFlag)
			if err != nil {
				return err
			}
			if err := checkBackend(cmd, a); err != nil {
				return err
			}
			engine := repl.New(a.reg, a.builder, a.client, a.cfg.Model(), version, os.Stdin, cmd.OutOrStdout())
			return engine.Run(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&personaFlag, "persona", "p", "", "Persona to use (e.g. general, security)")
	root.Flags().BoolVarP(&showVersion, "version", "v", false, "Print the version and exit")

	root.AddCommand(
		newGenerateCmd(&personaFlag),
		newExplainCmd(&personaFlag),
		newModelsCmd(),
	)
	return root
}
