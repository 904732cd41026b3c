// Package dsl interprets Griforkfiles into resolved configurations.
//
// A Griforkfile is written in HCL native syntax. Top-level attributes set
// scalar fields (branches, parallel, hosts, mode), options bags (log, ssh,
// rsync) may be written as an object attribute or as a block, and lifecycle
// hooks are label-less blocks:
//
//	branches = 2
//	parallel = in_processes
//	hosts    = ["web1", "web2"]
//	mode     = grifork
//
//	log {
//	  file = "grifork.log"
//	}
//
//	remote {
//	  command = ["rsync", "-a", "./", "deploy@${args[0]}:/srv/app"]
//	}
//
// Every top-level name is looked up in a closed directive table; anything
// else fails with an *UndefinedDirectiveError. Hook blocks are compiled into
// tasks and then resolved into the four Config slots according to the role
// (master or remote worker) the script is interpreted for.
package dsl
