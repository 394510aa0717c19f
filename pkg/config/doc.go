// Package config loads editor settings from JSON or YAML files. A file maps
// container ids to the switches accepted by rows.New:
//
//	editors:
//	  items:
//	    sortable: true
//	    show_hide_duration: 150ms
//	    confirm_before_delete: true
//	    markers:
//	      row: ".line-item"
//
// Unset switches keep the editor defaults.
package config
