package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/nft-marketplace/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var (
	marketDataDir = btcutil.AppDataDir("nft-market", false)
	statePath     = path.Join(marketDataDir, "state.json")

	requestTimeout = 30 * time.Second
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "market"
	app.Usage = "Command line interface for the nft marketplace daemon"
	app.Commands = append(
		app.Commands,
		&config,
		&token,
		&list,
		&update,
		&cancel,
		&buy,
		&withdraw,
		&listing,
		&listings,
		&proceeds,
		&activities,
		&collection,
		&mint,
		&approve,
		&approveall,
		&mintandlist,
		&deposit,
		&balance,
		&webhook,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %s", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(marketDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(marketDataDir, os.ModeDir|0755); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func printRespJSON(resp []byte) {
	if len(resp) <= 0 {
		fmt.Println("{}")
		return
	}
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, resp, "", "\t"); err != nil {
		fmt.Println(string(resp))
		return
	}
	fmt.Println(buf.String())
}

// getPrecision returns the number of decimals of the amounts given to and
// printed by the CLI.
func getPrecision() uint {
	state, err := getState()
	if err != nil {
		return mathutil.DefaultPrecision
	}
	precision, err := strconv.ParseUint(state["precision"], 10, 32)
	if err != nil {
		return mathutil.DefaultPrecision
	}
	return uint(precision)
}

func parseAmount(amount string) (uint64, error) {
	return mathutil.ToBaseUnits(amount, getPrecision())
}

// client sends requests to the daemon on behalf of the caller configured in
// the local state.
type client struct {
	*http.Client
	server string
	token  string
	caller string
}

func getClient() (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	server, ok := state["rpcserver"]
	if !ok {
		return nil, errors.New("set rpcserver with `config set rpcserver`")
	}
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}

	return &client{
		Client: &http.Client{Timeout: requestTimeout},
		server: strings.TrimSuffix(server, "/"),
		token:  state["token"],
		caller: state["address"],
	}, nil
}

func (c *client) do(method, endpoint string, body interface{}) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.server+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.caller != "" {
		req.Header.Set("X-Caller-Address", c.caller)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		errResp := struct {
			Error string `json:"error"`
		}{}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, errors.New(errResp.Error)
		}
		return nil, fmt.Errorf("daemon answered with status %d", resp.StatusCode)
	}
	return respBody, nil
}

func doAndPrint(method, endpoint string, body interface{}) error {
	c, err := getClient()
	if err != nil {
		return err
	}
	resp, err := c.do(method, endpoint, body)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[market] %v\n", err)
	}
	os.Exit(1)
}
