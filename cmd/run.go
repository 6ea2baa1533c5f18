package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sorbentlab/breakthrough/internal/boundary"
	"github.com/sorbentlab/breakthrough/internal/column"
	"github.com/sorbentlab/breakthrough/internal/config"
	"github.com/sorbentlab/breakthrough/internal/discretization"
	"github.com/sorbentlab/breakthrough/internal/equilibrium"
	"github.com/sorbentlab/breakthrough/internal/integrator"
	"github.com/sorbentlab/breakthrough/internal/isotherm"
	"github.com/sorbentlab/breakthrough/internal/momentum"
	"github.com/sorbentlab/breakthrough/internal/output"
	"github.com/sorbentlab/breakthrough/internal/simulation"
)

const gasConstant = 8.314462618 // J/(mol*K)

var (
	cpuProfile bool
	memProfile bool
	tagOutput  bool
	outDir     string
)

var runCmd = &cobra.Command{
	Use:   "run <input-file>",
	Short: "Run a breakthrough simulation from a plaintext input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cpuProfile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		if memProfile {
			defer profile.Start(profile.MemProfile).Stop()
		}
		return runSimulation(args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&cpuProfile, "cpuprofile", false, "write a CPU profile of the run")
	runCmd.Flags().BoolVar(&memProfile, "memprofile", false, "write a memory profile of the run")
	runCmd.Flags().BoolVar(&tagOutput, "tag-output", false, "prefix output filenames with a per-run UUID")
	runCmd.Flags().StringVar(&outDir, "out", ".", "directory for column.data and component_*.data")
}

func runSimulation(inputPath string) error {
	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, inputPath)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	prefix := ""
	if tagOutput {
		prefix = runID[:8] + "_"
	}

	g, comps, yi0, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	disc := discretization.Params{R: gasConstant, T: cfg.Temperature, Epsilon: cfg.ColumnVoidFraction, RhoP: cfg.ParticleDensity}
	oracle := buildOracle(comps)
	cache := equilibrium.NewCache(g.Nodes(), g.Ncomp, g.MaxIsothermTerms)
	bcfg := boundary.DefaultConfig(cfg.TotalPressure, cfg.ColumnEntranceVelocity)
	bcfg.Pulse = cfg.PulseBreakthrough
	bcfg.TPulse = cfg.PulseTime
	bcfg.ErgunCoupled = cfg.SimulationType == "ErgunRK3"

	workers := viperWorkers()

	mc := buildMomentum(cfg)
	strategy, err := buildStrategy(cfg, g, disc, mc, oracle, cache, bcfg, yi0, workers)
	if err != nil {
		return err
	}

	s := buildInitialState(g, cfg, mc, yi0)
	mc.Compute(g, s)
	if _, err := equilibrium.EquilibrateAll(g, s, oracle, cache, workers, -1); err != nil {
		return fmt.Errorf("run %s: seeding initial equilibrium: %w", runID, err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	colFile, err := os.Create(filepath.Join(outDir, prefix+"column.data"))
	if err != nil {
		return err
	}
	defer colFile.Close()

	var compWriters []*output.ComponentWriter
	var compFiles []*os.File
	for k, c := range comps {
		f, err := os.Create(filepath.Join(outDir, fmt.Sprintf("%scomponent_%d_%s.data", prefix, k, c.Name)))
		if err != nil {
			return err
		}
		compFiles = append(compFiles, f)
		compWriters = append(compWriters, output.NewComponentWriter(f, k, c.Yi0, cfg.ColumnEntranceVelocity, cfg.ColumnLength, cfg.TotalPressure, cfg.PressureGradient))
	}
	defer func() {
		for _, f := range compFiles {
			f.Close()
		}
	}()

	obs := &output.MultiObserver{
		Column:     output.NewColumnWriter(colFile),
		Components: compWriters,
		Disc:       disc,
	}

	driver := &simulation.Driver{
		Grid:     g,
		Strategy: strategy,
		Cfg: simulation.Config{
			Dt: cfg.TimeStep, Nsteps: cfg.NumberOfTimeSteps, AutoSteps: cfg.AutoNumberOfTimeSteps,
			WriteEvery: cfg.WriteEvery, PrintEvery: cfg.PrintEvery,
			PTotal: cfg.TotalPressure, DPtDx: cfg.PressureGradient, L: cfg.ColumnLength,
		},
		Yi0:      yi0,
		Observer: obs,
		Cancel:   &simulation.CancelToken{},
	}

	log.Printf("run %s: %s (%d nodes, %d components)", runID, cfg.DisplayName, g.Nodes(), g.Ncomp)
	steps, err := driver.Run(s)
	if err != nil {
		return fmt.Errorf("run %s failed at step %d: %w", runID, steps, err)
	}
	log.Printf("run %s: completed %d steps", runID, steps)
	return nil
}

// viperWorkers returns the --workers flag value bound in cmd/root.go; 0
// tells equilibrium.EquilibrateAll to size the pool from GOMAXPROCS.
func viperWorkers() int {
	return viper.GetInt("workers")
}

func buildGrid(cfg *config.RunConfig) (*column.GridDescriptor, []column.Component, []float64, error) {
	comps := make([]column.Component, len(cfg.Components))
	yi0 := make([]float64, len(cfg.Components))
	for i, cs := range cfg.Components {
		comps[i] = column.Component{
			Name:    cs.Name,
			Yi0:     cs.Yi0,
			Kl:      cs.MassTransferCoefficient,
			D:       cs.DispersionCoefficient,
			Carrier: cs.CarrierGas,
			Isotherm: column.IsothermParams{
				Model:  cs.IsothermModel,
				Values: cs.IsothermParams,
			},
		}
		yi0[i] = cs.Yi0
	}
	g, err := column.NewGridDescriptor(cfg.NumberOfGridPoints, len(comps), cfg.ColumnLength, comps)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, comps, yi0, nil
}

func buildOracle(comps []column.Component) *isotherm.IAST {
	langmuirs := make([]isotherm.Langmuir, len(comps))
	carrierIndex := 0
	for i, c := range comps {
		if c.Carrier {
			carrierIndex = i
			continue
		}
		vals := c.Isotherm.Values
		var qsat, b float64
		if len(vals) >= 2 {
			qsat, b = vals[0], vals[1]
		}
		langmuirs[i] = isotherm.Langmuir{Qsat: qsat, B: b}
	}
	return isotherm.NewIAST(langmuirs, carrierIndex)
}

// buildMomentum constructs the velocity closure matching cfg.SimulationType:
// Ergun for the Ergun-coupled variant, continuity-derived otherwise
// (baseline explicit and implicit variants share it).
func buildMomentum(cfg *config.RunConfig) integrator.MomentumComputer {
	if cfg.SimulationType == "ErgunRK3" {
		gas := momentum.HeliumProperties
		gas.ParticleD = 3e-3
		return momentum.NewErgun(momentum.ErgunParams{
			Gas: gas, R: gasConstant, T: cfg.Temperature,
			Epsilon: cfg.ColumnVoidFraction, VIn: cfg.ColumnEntranceVelocity,
		})
	}
	return momentum.NewContinuity(momentum.ContinuityParams{
		R: gasConstant, T: cfg.Temperature, Epsilon: cfg.ColumnVoidFraction,
		RhoP: cfg.ParticleDensity, VIn: cfg.ColumnEntranceVelocity,
	})
}

// buildInitialState realizes the initial condition: loadings zero
// everywhere, gas phase pure carrier at p_total everywhere except node 0
// (Dirichlet inlet composition). Under the Ergun closure the initial Pt
// profile is backward-integrated from the outlet rather than held uniform.
// Velocity and Qeq are seeded by the caller via the momentum closure and a
// single equilibrium call, once this state exists.
func buildInitialState(g *column.GridDescriptor, cfg *config.RunConfig, mc integrator.MomentumComputer, yi0 []float64) *column.State {
	s := column.NewState(g)
	nodes := g.Nodes()

	for i := 0; i < nodes; i++ {
		s.Pt[i] = cfg.TotalPressure
	}
	if ergun, ok := mc.(*momentum.Ergun); ok {
		copy(s.Pt, ergun.InitialPressureProfile(g, cfg.TotalPressure))
	}

	for j, y := range yi0 {
		s.Y[g.Idx(0, j)] = y
		s.P[g.Idx(0, j)] = cfg.TotalPressure * y
		if g.Comps[j].Carrier {
			for i := 1; i < nodes; i++ {
				s.Y[g.Idx(i, j)] = 1
				s.P[g.Idx(i, j)] = s.Pt[i]
			}
		}
	}
	s.V[0] = cfg.ColumnEntranceVelocity
	return s
}

func buildStrategy(cfg *config.RunConfig, g *column.GridDescriptor, disc discretization.Params,
	mc integrator.MomentumComputer, oracle equilibrium.Oracle, cache *equilibrium.Cache,
	bcfg boundary.Config, yi0 []float64, workers int) (integrator.Strategy, error) {
	switch cfg.SimulationType {
	case "ErgunRK3":
		return integrator.NewErgunRK3(g, disc, mc, oracle, cache, bcfg, yi0, workers), nil
	case "Implicit":
		return integrator.NewImplicit(g, disc, mc, oracle, cache, bcfg, yi0, workers), nil
	case "ContinuityRK3", "":
		return integrator.NewContinuityRK3(g, disc, mc, oracle, cache, bcfg, yi0, workers), nil
	default:
		return nil, column.NewSimError(column.ConfigInvalid, 0, -1,
			fmt.Errorf("unknown SimulationType %q", cfg.SimulationType))
	}
}
