// Package io reads tablemap input files and writes layout snapshots as JSON.
//
// # Hierarchy Format
//
// A hierarchy file is a single nested object:
//
//	{
//	  "name": "task",
//	  "label": "Task",
//	  "classification": "base",
//	  "children": [
//	    {"name": "incident", "classification": "extended", "customFieldCount": 12},
//	    {"name": "u_vendor_task", "classification": "custom", "recordCount": 340}
//	  ]
//	}
//
// Required: name, classification (base, extended or custom). Optional:
// label, children, customFieldCount, recordCount. Names must be unique.
//
// # Relationship Bundle Format
//
// The focused-table view reads a bundle:
//
//	{
//	  "center": "incident",
//	  "tables": [{"name": "u_vendor", "label": "Vendor", "isCustom": true}],
//	  "relationships": [
//	    {"sourceTable": "incident", "targetTable": "u_vendor",
//	     "fieldName": "u_vendor", "isCustom": true, "isMandatory": false}
//	  ]
//	}
//
// # Import
//
// Use [ImportHierarchy] / [ImportBundle] for file paths, or [ReadHierarchy] /
// [ReadBundle] for any io.Reader. Decoding failures carry INVALID_INPUT,
// structural problems INVALID_HIERARCHY, and missing files FILE_NOT_FOUND.
//
// # Export
//
// [WriteLayout] and [ExportLayout] write a computed layout. Snapshots are
// output only: nothing in tablemap reads layout state back.
package io
