// Package hcl implements config.Loader for equigrid workspaces.
//
// A workspace is any mix of `.hcl` files declaring systems:
//
//	system "orbit" {
//	  equations = <<-EOT
//	    x = y * 2
//	    y = z + z - p / 5
//	    z = 12
//	  EOT
//	  bindings = {
//	    p = 10
//	    q = null
//	  }
//	}
//
// and plain `.eq` files, each holding the equations of one system named
// after the file.
package hcl
