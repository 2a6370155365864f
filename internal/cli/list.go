package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/person-registry/internal/model"
	"github.com/rcliao/person-registry/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people",
		Long:  "List people, newest registration first. Filter by city or gender.",
		Run:   runList,
	}

	cmd.Flags().String("city", "", "Filter by city")
	cmd.Flags().String("gender", "", "Filter by gender")
	cmd.Flags().String("order", "newest", "Order by registration: newest or oldest")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	city, _ := cmd.Flags().GetString("city")
	gender, _ := cmd.Flags().GetString("gender")
	orderStr, _ := cmd.Flags().GetString("order")
	limit, _ := cmd.Flags().GetInt("limit")

	order, err := store.ParseOrder(orderStr)
	if err != nil {
		exitErr("list", err)
	}

	a := mustOpenApp(cmd)
	defer a.Close()

	persons, err := a.svc.List(cmd.Context(), store.ListParams{
		City:   city,
		Gender: model.CanonicalGender(gender),
		Order:  order,
		Limit:  limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	printPersons(cmd, persons)
}
