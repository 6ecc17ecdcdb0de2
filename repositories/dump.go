package repositories

import (
	"io"
	"presence-lab/domain"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Dump writes one row per live record, lists first, then rooms and
// contacts in handle order.
func (r *HandleRepository) Dump(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Type", "Handle", "Name", "Refs"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for i, rec := range r.lists {
		table.Append([]string{domain.List.String(), strconv.Itoa(i + 1), rec.name, "-"})
	}
	for _, handleType := range []domain.HandleType{domain.Room, domain.Contact} {
		ns := r.namespaces[handleType]
		handles := lo.Keys(ns.records)
		slices.Sort(handles)
		for _, h := range handles {
			rec := ns.records[h]
			table.Append([]string{
				handleType.String(),
				strconv.FormatUint(uint64(h), 10),
				rec.name,
				strconv.Itoa(rec.refCount),
			})
		}
	}
	table.Render()
}
