package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/skillhive/internal/domain/catalog"
	"github.com/okian/skillhive/internal/domain/model"
)

var (
	teammateQuery     string
	teammateEducation string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id>",
	Short: "Print hackathon recommendations for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecommend,
}

var teammatesCmd = &cobra.Command{
	Use:   "teammates <user-id>",
	Short: "Print teammate candidates for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runTeammates,
}

var enrollCmd = &cobra.Command{
	Use:   "enroll <user-id> <hackathon-id>",
	Short: "Enroll a user in a hackathon",
	Args:  cobra.ExactArgs(2),
	RunE:  runEnroll,
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := startService(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop()

	recs, err := svc.Recommend(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), recs)
}

func runTeammates(cmd *cobra.Command, args []string) error {
	filter := catalog.TeammateFilter{Query: teammateQuery, Education: model.Education(teammateEducation)}
	if filter.Education != "" && !filter.Education.Valid() {
		return fmt.Errorf("unknown education %q", teammateEducation)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := startService(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop()

	candidates, err := svc.MatchTeammates(ctx, args[0], filter)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), candidates)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, err := startService(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop()

	result, err := svc.Enroll(ctx, args[0], args[1])
	if perr := printJSON(cmd.OutOrStdout(), result); perr != nil {
		return perr
	}
	return err
}
