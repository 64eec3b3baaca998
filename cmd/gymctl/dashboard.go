package main

import (
	"github.com/spf13/cobra"

	"github.com/aigymos/gym-console/internal/domain/entities"
	dashboardUsecase "github.com/aigymos/gym-console/internal/usecase/dashboard"
)

func newDashboardCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard overview tools",
	}
	cmd.AddCommand(newViewModelCmd(opts))
	return cmd
}

func newViewModelCmd(opts *options) *cobra.Command {
	var executive, commercial, operational, retention, churn string

	cmd := &cobra.Command{
		Use:   "viewmodel",
		Short: "Build the overview from saved dashboard payloads",
		Long: `Build the overview from saved dashboard payloads. Every feed is optional;
a missing file is treated the same way as a failed backend call.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in dashboardUsecase.ViewModelInput

			if executive != "" {
				in.Executive = &entities.ExecutiveDashboard{}
				if err := readJSON(cmd, executive, in.Executive); err != nil {
					return err
				}
			}
			if commercial != "" {
				in.Commercial = &entities.CommercialDashboard{}
				if err := readJSON(cmd, commercial, in.Commercial); err != nil {
					return err
				}
			}
			if operational != "" {
				in.Operational = &entities.OperationalDashboard{}
				if err := readJSON(cmd, operational, in.Operational); err != nil {
					return err
				}
			}
			if retention != "" {
				in.Retention = &entities.RetentionDashboard{}
				if err := readJSON(cmd, retention, in.Retention); err != nil {
					return err
				}
			}
			if churn != "" {
				if err := readJSON(cmd, churn, &in.Churn); err != nil {
					return err
				}
			}

			return opts.render(cmd.OutOrStdout(), dashboardUsecase.BuildViewModel(in))
		},
	}

	cmd.Flags().StringVar(&executive, "executive", "", "executive dashboard payload")
	cmd.Flags().StringVar(&commercial, "commercial", "", "commercial dashboard payload")
	cmd.Flags().StringVar(&operational, "operational", "", "operational dashboard payload")
	cmd.Flags().StringVar(&retention, "retention", "", "retention dashboard payload")
	cmd.Flags().StringVar(&churn, "churn", "", "churn series payload (JSON array)")
	return cmd
}
