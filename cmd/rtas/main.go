//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Command rtas is the runnable wrapper around the protocol engine: a
// cobra command tree that loads configuration, binds the local
// party's engine, and either keeps the mesh open (serve) or drives a
// small scripted computation across all three parties (demo). Neither
// subcommand is part of the protocol engine itself — see the rtas
// package for that.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/markkurossi/rtas/config"
	"github.com/markkurossi/rtas/logging"
	"github.com/markkurossi/rtas/rtas"
	"github.com/markkurossi/rtas/tensor"
)

var (
	cfgPath string
	self    string
	debug   bool
)

func main() {
	root := &cobra.Command{
		Use:   "rtas",
		Short: "three-party tensor secret-sharing runtime",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML/JSON config file")
	root.PersistentFlags().StringVar(&self, "self", "", "local party name (P0, P1 or P2)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable development logging")

	root.AddCommand(serveCmd())
	root.AddCommand(demoCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildEngine() (*rtas.Engine, *zap.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if self != "" {
		cfg.Self = self
	}

	log, err := logging.New(debug)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	e, err := rtas.NewEngine(cfg, logging.Party(log, cfg.Self))
	if err != nil {
		return nil, nil, fmt.Errorf("new engine: %w", err)
	}
	return e, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "bind this party's socket, connect the mesh, and block",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, log, err := buildEngine()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.SetUp(); err != nil {
				return fmt.Errorf("set up: %w", err)
			}
			log.Info("mesh established, idling")
			select {}
		},
	}
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "run a scripted three-party computation and print P0's result",
		Long: "Every instance of this command (one per party) must be started " +
			"with the same --config so they agree on the address map. It shares " +
			"X=[1,2,3] from P0, shares Y=[10,20,30] from P2, computes X*Y with a " +
			"Beaver triple, and reveals the product to P0.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, log, err := buildEngine()
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.SetUp(); err != nil {
				return fmt.Errorf("set up: %w", err)
			}

			x, err := e.NewPrivate(func() (*tensor.Tensor, error) {
				return tensor.New([]int{3}, []float64{1, 2, 3})
			}, []int{3}, "P0")
			if err != nil {
				return err
			}
			sharedX, err := e.Share(x)
			if err != nil {
				return err
			}

			y, err := e.NewPrivate(func() (*tensor.Tensor, error) {
				return tensor.New([]int{3}, []float64{10, 20, 30})
			}, []int{3}, "P2")
			if err != nil {
				return err
			}
			sharedY, err := e.Share(y)
			if err != nil {
				return err
			}

			product, err := e.Product(sharedX, sharedY, tensor.Mul, []int{3}, []int{3}, "demo-mul")
			if err != nil {
				return err
			}

			result, err := e.RevealTo(product, "P0")
			if err != nil {
				return err
			}

			if result != nil {
				log.Info("revealed product", zap.Any("result", result.Data()))
				fmt.Printf("X*Y = %v\n", result.Data())
			}
			return nil
		},
	}
}
