/*
Copyright © 2024 the SWxSOC authors.
This file is part of the SWxSOC data tools.

The SWxSOC data tools are free software: you can redistribute them and/or
modify them under the terms of the GNU General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The SWxSOC data tools are distributed in the hope that they will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the SWxSOC data tools.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command swx is a command-line interface for the SWxSOC data tools.
package main

import (
	"fmt"
	"os"

	"github.com/swxsoc/swxsoc/swxcli"
)

func main() {
	if err := swxcli.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
