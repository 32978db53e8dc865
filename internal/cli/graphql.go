package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	graphqlOperation string
	graphqlVariables string

	whoamiIndex int
)

var graphqlCmd = &cobra.Command{
	Use:   "graphql QUERY",
	Short: "Send a raw GraphQL query",
	Long: `Send a GraphQL query to the vendor API and print the response.

Examples:
  sucktorial graphql 'query GetCurrent { apiCore { currents { employee { id } } } }' --operation GetCurrent
  sucktorial graphql 'query Q($n: Int!) { ... }' --variables '{"n": 5}'`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphQL,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the employee bound to the session",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runGraphQL(cmd *cobra.Command, args []string) error {
	var variables map[string]any
	if graphqlVariables != "" {
		if err := json.Unmarshal([]byte(graphqlVariables), &variables); err != nil {
			return fmt.Errorf("invalid --variables JSON: %w", err)
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	resp, err := client.GraphQL(cmd.Context(), graphqlOperation, args[0], variables)
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	employee, err := client.CurrentEmployee(cmd.Context(), whoamiIndex)
	if err != nil {
		return err
	}

	if employee == nil {
		fmt.Println("No current employee. Are you logged in?")
		return nil
	}

	fmt.Printf("👤 Employee %s (%s)\n", employee.ID, client.Email())
	return nil
}

func init() {
	graphqlCmd.Flags().StringVar(&graphqlOperation, "operation", "", "Operation name to execute")
	graphqlCmd.Flags().StringVar(&graphqlVariables, "variables", "", "Query variables as a JSON object")

	whoamiCmd.Flags().IntVar(&whoamiIndex, "index", -1, "Which current to pick, negative counts from the end")
}
